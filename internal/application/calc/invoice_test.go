package calc

import (
	"testing"

	"github.com/google/uuid"
	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/okello/invoicer-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got.String())
}

func simpleItem(cost, quantity string) entity.InvoiceItem {
	return entity.InvoiceItem{
		TypeID:   enum.ItemTypeProduct,
		Cost:     dec(cost),
		Quantity: dec(quantity),
	}
}

func draftInvoice(items ...entity.InvoiceItem) *entity.Invoice {
	return &entity.Invoice{
		Status:    enum.InvoiceStatusDraft,
		LineItems: items,
	}
}

func TestExclusiveNoTaxes(t *testing.T) {
	inv := draftInvoice(simpleItem("10", "2"))

	result := ForInvoice(inv, 2).Calculate(inv)

	assertDecimal(t, "20", result.SubTotal)
	assertDecimal(t, "20", result.Amount)
	assertDecimal(t, "20", result.Balance)
	assertDecimal(t, "0", result.TotalTaxes)
	assertDecimal(t, "20", inv.Amount)
	assertDecimal(t, "20", inv.Balance)
	assert.Empty(t, result.TaxGroups)
}

func TestExclusiveInvoiceTax(t *testing.T) {
	inv := draftInvoice(simpleItem("10", "2"))
	inv.TaxName1 = "GST"
	inv.TaxRate1 = dec("10")

	result := ForInvoice(inv, 2).Calculate(inv)

	assertDecimal(t, "22", result.Amount)
	assertDecimal(t, "2", result.TotalTaxes)
	require.Len(t, result.TaxGroups, 1)
	assert.Equal(t, "GST", result.TaxGroups[0].Name)
	assert.Equal(t, "GST 10 %", result.TaxGroups[0].Label)
	assertDecimal(t, "2", result.TaxGroups[0].Total)
	assert.Equal(t, []string{"GST 10 %"}, result.TaxLabels)
}

func TestInclusiveInvoiceTax(t *testing.T) {
	inv := draftInvoice(simpleItem("10", "2"))
	inv.UsesInclusiveTaxes = true
	inv.TaxName1 = "GST"
	inv.TaxRate1 = dec("10")

	result := ForInvoice(inv, 2).Calculate(inv)

	// tax is extracted from the price, never added on top
	assertDecimal(t, "20", result.Amount)
	assertDecimal(t, "1.82", result.TotalTaxes)
	require.Len(t, result.TaxGroups, 1)
	assertDecimal(t, "1.82", result.TaxGroups[0].Total)
}

func TestAmountDiscountWithUntaxedSurcharge(t *testing.T) {
	inv := draftInvoice(simpleItem("20", "1"))
	inv.IsAmountDiscount = true
	inv.Discount = dec("5")
	inv.CustomSurcharge1 = dec("5")

	result := ForInvoice(inv, 2).Calculate(inv)

	// 20 - 5 discount + 5 surcharge
	assertDecimal(t, "20", result.Amount)
	assertDecimal(t, "5", result.DiscountAmount)
	assertDecimal(t, "5", result.CustomSurcharges)
}

func TestPercentDiscountIsBoundedBySubtotal(t *testing.T) {
	inv := draftInvoice(simpleItem("100", "1"))
	inv.Discount = dec("100")

	result := ForInvoice(inv, 2).Calculate(inv)

	assertDecimal(t, "100", result.DiscountAmount)
	assertDecimal(t, "0", result.Amount)
}

func TestAmountDiscountAppliedVerbatimPastZero(t *testing.T) {
	inv := draftInvoice(simpleItem("100", "1"))
	inv.IsAmountDiscount = true
	inv.Discount = dec("150")

	result := ForInvoice(inv, 2).Calculate(inv)

	// not clamped; the total goes negative deterministically
	assertDecimal(t, "-50", result.Amount)
}

func TestRegimeEquivalenceAtZeroTax(t *testing.T) {
	build := func(inclusive bool) *entity.Invoice {
		item := simpleItem("33.33", "3")
		item.Discount = dec("10")
		inv := draftInvoice(item, simpleItem("5", "4"))
		inv.Discount = dec("7.5")
		inv.CustomSurcharge2 = dec("12")
		inv.UsesInclusiveTaxes = inclusive
		return inv
	}

	exclusive := build(false)
	inclusive := build(true)
	exclusiveResult := ForInvoice(exclusive, 2).Calculate(exclusive)
	inclusiveResult := ForInvoice(inclusive, 2).Calculate(inclusive)

	assert.True(t, exclusiveResult.Amount.Equal(inclusiveResult.Amount),
		"exclusive %s != inclusive %s", exclusiveResult.Amount, inclusiveResult.Amount)
}

func TestSubtotalAdditivity(t *testing.T) {
	itemA := simpleItem("19.99", "3")
	itemA.Discount = dec("5")
	itemB := simpleItem("7.25", "2")
	itemB.IsAmountDiscount = true
	itemB.Discount = dec("1.5")
	inv := draftInvoice(itemA, itemB, simpleItem("100", "0.5"))

	result := ForInvoice(inv, 2).Calculate(inv)

	sum := decimal.Zero
	for _, item := range inv.LineItems {
		sum = sum.Add(item.LineTotal)
	}
	assert.True(t, result.SubTotal.Equal(sum), "subtotal %s != sum of line totals %s", result.SubTotal, sum)
}

func TestIdempotence(t *testing.T) {
	item := simpleItem("42.42", "3")
	item.TaxName1 = "VAT"
	item.TaxRate1 = dec("17.5")
	inv := draftInvoice(item)
	inv.Discount = dec("5")
	inv.TaxName1 = "GST"
	inv.TaxRate1 = dec("10")
	inv.CustomSurcharge1 = dec("3")
	inv.CustomSurchargeTax1 = true

	calculator := ForInvoice(inv, 2)
	first := calculator.Calculate(inv)
	second := calculator.Calculate(inv)

	assert.True(t, first.Amount.Equal(second.Amount))
	assert.True(t, first.Balance.Equal(second.Balance))
	assert.True(t, first.TotalTaxes.Equal(second.TotalTaxes))
	require.Equal(t, len(first.TaxGroups), len(second.TaxGroups))
	for i := range first.TaxGroups {
		assert.Equal(t, first.TaxGroups[i].Label, second.TaxGroups[i].Label)
		assert.True(t, first.TaxGroups[i].Total.Equal(second.TaxGroups[i].Total))
	}
}

func TestSettlementPreservesPaymentsToDate(t *testing.T) {
	inv := draftInvoice(simpleItem("10", "2"))
	inv.ID = uuid.New()
	inv.Status = enum.InvoiceStatusPartial
	inv.TaxName1 = "GST"
	inv.TaxRate1 = dec("10")
	// previously persisted at 22 with 10 already paid
	inv.Amount = dec("22")
	inv.Balance = dec("12")

	result := ForInvoice(inv, 2).Calculate(inv)

	assertDecimal(t, "22", result.Amount)
	assertDecimal(t, "12", result.Balance)
}

func TestSettlementWithoutPriorPayments(t *testing.T) {
	inv := draftInvoice(simpleItem("10", "2"))
	inv.ID = uuid.New()
	inv.Status = enum.InvoiceStatusSent
	inv.Amount = dec("20")
	inv.Balance = dec("20")

	result := ForInvoice(inv, 2).Calculate(inv)

	assertDecimal(t, "20", result.Amount)
	assertDecimal(t, "20", result.Balance)
}

func TestDraftAlwaysBalancesToAmount(t *testing.T) {
	inv := draftInvoice(simpleItem("10", "2"))
	// stale persisted figures must not leak into a draft's balance
	inv.Amount = dec("99")
	inv.Balance = dec("1")

	result := ForInvoice(inv, 2).Calculate(inv)

	assert.True(t, result.Balance.Equal(result.Amount))
}

func TestPartialClampOnUnsavedInvoice(t *testing.T) {
	inv := draftInvoice(simpleItem("10", "2"))
	inv.Partial = dec("50")

	result := ForInvoice(inv, 2).Calculate(inv)

	assertDecimal(t, "20", result.Partial)
	assertDecimal(t, "20", inv.Partial)
}

func TestPartialUntouchedOnSavedInvoice(t *testing.T) {
	inv := draftInvoice(simpleItem("10", "2"))
	inv.ID = uuid.New()
	inv.Partial = dec("50")

	ForInvoice(inv, 2).Calculate(inv)

	assertDecimal(t, "50", inv.Partial)
}

func TestExclusiveSurchargeTaxContribution(t *testing.T) {
	inv := draftInvoice(simpleItem("100", "1"))
	inv.TaxName1 = "VAT"
	inv.TaxRate1 = dec("20")
	inv.CustomSurcharge1 = dec("10")
	inv.CustomSurchargeTax1 = true
	inv.CustomSurcharge2 = dec("5") // untaxed

	result := ForInvoice(inv, 2).Calculate(inv)

	// invoice tax 20 on 100, plus 2 on the taxed surcharge
	assertDecimal(t, "22", result.TotalTaxes)
	// 100 + 15 surcharges + 22 taxes
	assertDecimal(t, "137", result.Amount)
}

// Inclusive pricing never tax-adjusts surcharges, unlike the exclusive
// regime above. Any change to this behavior is a product decision, not a
// cleanup; this test exists so it cannot happen silently.
func TestInclusiveSurchargesCarryNoTax(t *testing.T) {
	inv := draftInvoice(simpleItem("110", "1"))
	inv.UsesInclusiveTaxes = true
	inv.TaxName1 = "VAT"
	inv.TaxRate1 = dec("10")
	inv.CustomSurcharge1 = dec("10")
	inv.CustomSurchargeTax1 = true

	result := ForInvoice(inv, 2).Calculate(inv)

	// only the extraction from the discounted total: 110 - 110/1.1 = 10
	assertDecimal(t, "10", result.TotalTaxes)
	assertDecimal(t, "120", result.Amount)
}

func TestAmountInvoiceDiscountRebuildsLedger(t *testing.T) {
	itemA := simpleItem("100", "1")
	itemA.TaxName1 = "GST"
	itemA.TaxRate1 = dec("10")
	itemB := simpleItem("300", "1")
	itemB.TaxName1 = "GST"
	itemB.TaxRate1 = dec("10")
	inv := draftInvoice(itemA, itemB)
	inv.IsAmountDiscount = true
	inv.Discount = dec("40")

	result := ForInvoice(inv, 2).Calculate(inv)

	// the 40 spreads 10/30 across the items: bases 90 and 270, taxes 9 + 27
	assertDecimal(t, "36", result.TotalTaxes)
	require.Len(t, result.TaxGroups, 1)
	assertDecimal(t, "36", result.TaxGroups[0].Total)
	// 400 - 40 + 36
	assertDecimal(t, "396", result.Amount)

	// the items keep their first-pass values, where the 40 was read as a
	// percentage: basis 60 -> tax 6 on the first item
	assertDecimal(t, "100", inv.LineItems[0].LineTotal)
	assertDecimal(t, "106", inv.LineItems[0].GrossLineTotal)
}

func TestLedgerMergesMatchingNameAndRate(t *testing.T) {
	itemA := simpleItem("100", "1")
	itemA.TaxName1 = "GST"
	itemA.TaxRate1 = dec("10")
	itemB := simpleItem("50", "1")
	itemB.TaxName1 = "GST"
	itemB.TaxRate1 = dec("10")
	itemB.TaxName2 = "GST"
	itemB.TaxRate2 = dec("5")
	inv := draftInvoice(itemA, itemB)
	inv.TaxName1 = "GST"
	inv.TaxRate1 = dec("10")

	result := ForInvoice(inv, 2).Calculate(inv)

	require.Len(t, result.TaxGroups, 2)
	// items contribute 10 + 5, the invoice slot adds 15 on the 150 total
	assert.Equal(t, "GST 10 %", result.TaxGroups[0].Label)
	assertDecimal(t, "30", result.TaxGroups[0].Total)
	assert.Equal(t, "GST 5 %", result.TaxGroups[1].Label)
	assertDecimal(t, "2.5", result.TaxGroups[1].Total)
}

func TestTotalTaxesMatchesLedgerSum(t *testing.T) {
	itemA := simpleItem("123.45", "2")
	itemA.TaxName1 = "VAT"
	itemA.TaxRate1 = dec("21")
	itemB := simpleItem("9.99", "5")
	itemB.TaxName1 = "Eco"
	itemB.TaxRate1 = dec("2.5")
	inv := draftInvoice(itemA, itemB)
	inv.TaxName1 = "VAT"
	inv.TaxRate1 = dec("21")

	result := ForInvoice(inv, 2).Calculate(inv)

	sum := decimal.Zero
	for _, group := range result.TaxGroups {
		sum = sum.Add(group.Total)
	}
	assert.True(t, result.TotalTaxes.Equal(sum), "total taxes %s != ledger sum %s", result.TotalTaxes, sum)
}
