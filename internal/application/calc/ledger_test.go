package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerGroupsByNameAndRate(t *testing.T) {
	ledger := NewTaxLedger()
	ledger.Add("GST", dec("10"), dec("5"))
	ledger.Add("GST", dec("10"), dec("2.5"))
	ledger.Add("GST", dec("5"), dec("1"))
	ledger.Add("PST", dec("10"), dec("3"))

	entries := ledger.Entries()
	require.Len(t, entries, 3)
	assertDecimal(t, "7.5", entries[0].Total)
	assertDecimal(t, "1", entries[1].Total)
	assertDecimal(t, "3", entries[2].Total)
	assertDecimal(t, "11.5", ledger.Total())
}

func TestLedgerEntriesKeepFirstSeenOrder(t *testing.T) {
	ledger := NewTaxLedger()
	ledger.Add("VAT", dec("21"), dec("1"))
	ledger.Add("Eco", dec("2.5"), dec("1"))
	ledger.Add("VAT", dec("21"), dec("1"))

	entries := ledger.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "VAT", entries[0].Name)
	assert.Equal(t, "Eco", entries[1].Name)
}

func TestLedgerSumIsOrderIndependent(t *testing.T) {
	forward := NewTaxLedger()
	forward.Add("GST", dec("10"), dec("5"))
	forward.Add("GST", dec("10"), dec("2.5"))
	backward := NewTaxLedger()
	backward.Add("GST", dec("10"), dec("2.5"))
	backward.Add("GST", dec("10"), dec("5"))

	assert.True(t, forward.Total().Equal(backward.Total()))
}

func TestRatesCollideOnValueNotScale(t *testing.T) {
	ledger := NewTaxLedger()
	ledger.Add("GST", dec("10"), dec("1"))
	ledger.Add("GST", dec("10.0"), dec("1"))

	assert.Len(t, ledger.Entries(), 1)
}

func TestTaxLabel(t *testing.T) {
	assert.Equal(t, "GST 10 %", TaxLabel("GST", dec("10")))
	assert.Equal(t, "VAT 17.5 %", TaxLabel("VAT", dec("17.5")))
}
