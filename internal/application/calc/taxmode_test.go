package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExclusiveTaxFormula(t *testing.T) {
	got := TaxExclusive.Tax(dec("200"), dec("10"))
	assertDecimal(t, "20", got)
}

func TestInclusiveTaxFormula(t *testing.T) {
	got := TaxInclusive.Tax(dec("110"), dec("10")).Round(2)
	assertDecimal(t, "10", got)
}

func TestInclusiveTaxAtMinusHundredPercent(t *testing.T) {
	// degenerate rate; must stay deterministic instead of dividing by zero
	got := TaxInclusive.Tax(dec("110"), dec("-100"))
	assertDecimal(t, "0", got)
}

func TestZeroRateIsFreeInBothModes(t *testing.T) {
	assertDecimal(t, "0", TaxExclusive.Tax(dec("500"), dec("0")))
	assertDecimal(t, "0", TaxInclusive.Tax(dec("500"), dec("0")))
}

func TestFoldsIntoTotal(t *testing.T) {
	assert.True(t, TaxExclusive.FoldsIntoTotal())
	assert.False(t, TaxInclusive.FoldsIntoTotal())
}

func TestTaxModeString(t *testing.T) {
	assert.Equal(t, "exclusive", TaxExclusive.String())
	assert.Equal(t, "inclusive", TaxInclusive.String())
}
