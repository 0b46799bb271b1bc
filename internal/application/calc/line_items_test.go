package calc

import (
	"testing"

	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLineCalculator(mode TaxMode) *lineItemCalculator {
	return &lineItemCalculator{mode: mode, precision: 2, invoiceDiscount: decimal.Zero}
}

func TestProcessLeavesInputItemsUntouched(t *testing.T) {
	items := []entity.InvoiceItem{simpleItem("10", "2")}

	result := newLineCalculator(TaxExclusive).Process(items)

	assertDecimal(t, "0", items[0].LineTotal)
	assertDecimal(t, "20", result.Items[0].LineTotal)
}

func TestItemPercentDiscount(t *testing.T) {
	item := simpleItem("50", "2")
	item.Discount = dec("10")

	result := newLineCalculator(TaxExclusive).Process([]entity.InvoiceItem{item})

	assertDecimal(t, "90", result.Items[0].LineTotal)
	assertDecimal(t, "90", result.SubTotal)
}

func TestItemAmountDiscount(t *testing.T) {
	item := simpleItem("50", "2")
	item.IsAmountDiscount = true
	item.Discount = dec("15")

	result := newLineCalculator(TaxExclusive).Process([]entity.InvoiceItem{item})

	assertDecimal(t, "85", result.Items[0].LineTotal)
}

func TestExclusiveItemTaxAddsToGross(t *testing.T) {
	item := simpleItem("100", "1")
	item.TaxName1 = "GST"
	item.TaxRate1 = dec("10")
	item.TaxName2 = "PST"
	item.TaxRate2 = dec("7")

	result := newLineCalculator(TaxExclusive).Process([]entity.InvoiceItem{item})

	assertDecimal(t, "100", result.Items[0].LineTotal)
	assertDecimal(t, "117", result.Items[0].GrossLineTotal)
	assertDecimal(t, "17", result.TotalTaxes)
	assert.Len(t, result.Ledger.Entries(), 2)
}

func TestInclusiveItemTaxLeavesGrossAlone(t *testing.T) {
	item := simpleItem("110", "1")
	item.TaxName1 = "GST"
	item.TaxRate1 = dec("10")

	result := newLineCalculator(TaxInclusive).Process([]entity.InvoiceItem{item})

	assertDecimal(t, "110", result.Items[0].LineTotal)
	assertDecimal(t, "110", result.Items[0].GrossLineTotal)
	// 110 - 110/1.1
	assertDecimal(t, "10", result.TotalTaxes)
}

func TestInactiveTaxSlotsAreSkipped(t *testing.T) {
	item := simpleItem("100", "1")
	item.TaxRate1 = dec("10") // no name, slot inactive

	result := newLineCalculator(TaxExclusive).Process([]entity.InvoiceItem{item})

	assertDecimal(t, "0", result.TotalTaxes)
	assert.Empty(t, result.Ledger.Entries())
}

func TestFirstPassTreatsInvoiceDiscountAsPercent(t *testing.T) {
	item := simpleItem("100", "1")
	item.TaxName1 = "GST"
	item.TaxRate1 = dec("10")
	calculator := &lineItemCalculator{mode: TaxExclusive, precision: 2, invoiceDiscount: dec("20")}

	result := calculator.Process([]entity.InvoiceItem{item})

	// basis 100 - 20% = 80, regardless of what kind of discount 20 is
	assertDecimal(t, "8", result.TotalTaxes)
	assertDecimal(t, "100", result.Items[0].LineTotal)
}

func TestRecalculateSpreadsDiscountProportionally(t *testing.T) {
	itemA := simpleItem("100", "1")
	itemA.TaxName1 = "GST"
	itemA.TaxRate1 = dec("10")
	itemB := simpleItem("300", "1")
	itemB.TaxName1 = "GST"
	itemB.TaxRate1 = dec("10")
	calculator := newLineCalculator(TaxExclusive)
	processed := calculator.Process([]entity.InvoiceItem{itemA, itemB})

	ledger, totalTaxes := calculator.recalculateWithAmountDiscount(processed.Items, dec("40"), dec("400"))

	assertDecimal(t, "36", totalTaxes)
	entries := ledger.Entries()
	require.Len(t, entries, 1)
	assertDecimal(t, "36", entries[0].Total)
}

func TestRecalculateGuardsZeroSubtotal(t *testing.T) {
	calculator := newLineCalculator(TaxExclusive)

	ledger, totalTaxes := calculator.recalculateWithAmountDiscount(nil, dec("40"), decimal.Zero)

	assertDecimal(t, "0", totalTaxes)
	assert.Empty(t, ledger.Entries())
}

func TestRecalculateExcludesNonPositiveLines(t *testing.T) {
	itemA := simpleItem("100", "1")
	itemA.TaxName1 = "GST"
	itemA.TaxRate1 = dec("10")
	negative := simpleItem("-50", "1")
	negative.TaxName1 = "GST"
	negative.TaxRate1 = dec("10")
	calculator := newLineCalculator(TaxExclusive)
	processed := calculator.Process([]entity.InvoiceItem{itemA, negative})

	ledger, totalTaxes := calculator.recalculateWithAmountDiscount(processed.Items, dec("10"), dec("50"))

	// only the positive line re-aggregates: basis 100 - 100*10/50 = 80
	assertDecimal(t, "8", totalTaxes)
	require.Len(t, ledger.Entries(), 1)
}
