// Package calc derives an invoice's settled totals from its header fields
// and line items: subtotal, per-line and grouped tax breakdowns, surcharge
// and discount effects, and the final amount/balance/partial written back
// onto the invoice.
//
// The pipeline is strictly ordered: per-item pass, invoice discount,
// invoice-level taxes, surcharges, ledger consolidation, tax fold-in
// (exclusive regime only), settlement, partial clamp. Later steps read the
// outputs of earlier ones, so the order is not negotiable.
//
// Every monetary value is rounded to the currency precision at the point it
// is stored into an accumulator or written onto an item, in both regimes.
// Recomputing the same inputs therefore reproduces the same outputs
// bit-for-bit. The calculators do no I/O and no validation; garbage rates or
// negative quantities produce garbage-but-deterministic totals.
package calc

import (
	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/okello/invoicer-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the currency precision used when a caller has no
// configured one.
const DefaultPrecision int32 = 2

// Result is the settled totals picture for one computation run, suitable
// for rendering a totals panel and a tax breakdown table.
type Result struct {
	SubTotal         decimal.Decimal `json:"sub_total"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	CustomSurcharges decimal.Decimal `json:"custom_surcharges"`
	TotalTaxes       decimal.Decimal `json:"total_taxes"`
	Amount           decimal.Decimal `json:"amount"`
	Balance          decimal.Decimal `json:"balance"`
	Partial          decimal.Decimal `json:"partial"`
	TaxGroups        []TaxGroup      `json:"tax_groups"`
	// Labels of the invoice-level tax slots that applied, e.g. "GST 10 %".
	TaxLabels []string `json:"tax_labels"`
}

// Calculator computes invoice totals under one tax mode and currency
// precision. It holds no state between runs; each Calculate call is
// independent and reentrant.
type Calculator struct {
	mode      TaxMode
	precision int32
}

// NewCalculator returns a calculator for the given mode and precision.
func NewCalculator(mode TaxMode, precision int32) *Calculator {
	return &Calculator{mode: mode, precision: precision}
}

// ForInvoice picks the calculator matching the invoice's pricing regime.
func ForInvoice(inv *entity.Invoice, precision int32) *Calculator {
	mode := TaxExclusive
	if inv.UsesInclusiveTaxes {
		mode = TaxInclusive
	}
	return NewCalculator(mode, precision)
}

type invoiceTax struct {
	name   string
	rate   decimal.Decimal
	amount decimal.Decimal
}

// Calculate runs the full pipeline over the invoice. It rewrites the
// invoice's Amount, Balance, TotalTaxes and (for never-persisted invoices)
// Partial, and replaces inv.LineItems with recomputed copies; the previous
// slice is left untouched, so callers holding it must switch to the new one.
// The invoice's pre-call Amount/Balance are read as the prior persisted
// values when settling payments-to-date.
func (c *Calculator) Calculate(inv *entity.Invoice) Result {
	priorAmount := inv.Amount
	priorBalance := inv.Balance

	lines := &lineItemCalculator{
		mode:            c.mode,
		precision:       c.precision,
		invoiceDiscount: inv.Discount,
	}
	lineResult := lines.Process(inv.LineItems)
	subTotal := lineResult.SubTotal
	total := subTotal

	// Invoice discount. A percentage is bounded by the subtotal; a fixed
	// amount is applied verbatim even past zero.
	discountAmount := inv.Discount
	if !inv.IsAmountDiscount {
		discountAmount = c.round(subTotal.Mul(inv.Discount).Div(hundred))
	}
	total = total.Sub(discountAmount)

	// Invoice-level taxes read the discounted total before surcharges land
	// on it. Surcharge tax only exists in the exclusive regime; the
	// inclusive side never charges tax on surcharges (pinned by
	// TestInclusiveSurchargesCarryNoTax).
	totalTaxes := decimal.Zero
	var invoiceTaxes []invoiceTax
	var taxLabels []string
	for _, slot := range inv.TaxSlots() {
		if slot.Name == "" {
			continue
		}
		tax := c.round(c.mode.Tax(total, slot.Rate))
		if c.mode.FoldsIntoTotal() {
			tax = tax.Add(c.surchargeTax(inv, slot.Rate))
		}
		totalTaxes = totalTaxes.Add(tax)
		invoiceTaxes = append(invoiceTaxes, invoiceTax{name: slot.Name, rate: slot.Rate, amount: tax})
		taxLabels = append(taxLabels, TaxLabel(slot.Name, slot.Rate))
	}

	// Surcharges land on the total whether taxed or not.
	surcharges := decimal.Zero
	for _, s := range inv.Surcharges() {
		surcharges = surcharges.Add(s.Amount)
	}
	surcharges = c.round(surcharges)
	total = total.Add(surcharges)

	// Consolidate the tax ledger. An amount-based invoice discount
	// invalidates the percentage basis the first pass used, so the item
	// ledger is rebuilt with the discount spread proportionally.
	itemLedger := lineResult.Ledger
	itemTaxes := lineResult.TotalTaxes
	if inv.IsAmountDiscount && subTotal.Sign() > 0 {
		itemLedger, itemTaxes = lines.recalculateWithAmountDiscount(lineResult.Items, inv.Discount, subTotal)
	}
	for _, t := range invoiceTaxes {
		itemLedger.Add(t.name, t.rate, t.amount)
	}
	totalTaxes = totalTaxes.Add(itemTaxes)

	// Exclusive taxes fold into the total; inclusive ones were already part
	// of the line totals.
	if c.mode.FoldsIntoTotal() {
		total = total.Add(totalTaxes)
	}

	// Settlement: preserve payments made against the previously persisted
	// totals. A draft always balances to its full amount.
	balance := total
	if inv.Status != enum.InvoiceStatusDraft && !priorAmount.Equal(priorBalance) {
		paidToDate := priorAmount.Sub(priorBalance)
		balance = total.Sub(paidToDate)
	}

	inv.Amount = total
	inv.Balance = balance
	inv.TotalTaxes = totalTaxes
	inv.LineItems = lineResult.Items

	// A requested partial only gets clamped while the invoice has never
	// been saved; afterwards it is the caller's to manage.
	if !inv.IsPersisted() && inv.Partial.Sign() > 0 {
		inv.Partial = clamp(inv.Partial, decimal.Zero, balance)
	}

	return Result{
		SubTotal:         subTotal,
		DiscountAmount:   discountAmount,
		CustomSurcharges: surcharges,
		TotalTaxes:       totalTaxes,
		Amount:           total,
		Balance:          balance,
		Partial:          inv.Partial,
		TaxGroups:        itemLedger.Entries(),
		TaxLabels:        taxLabels,
	}
}

// surchargeTax sums the tax due on the surcharges flagged as taxable, at one
// invoice-level rate. Called once per active invoice tax slot.
func (c *Calculator) surchargeTax(inv *entity.Invoice, rate decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range inv.Surcharges() {
		if !s.Taxed {
			continue
		}
		sum = sum.Add(c.round(s.Amount.Mul(rate).Div(hundred)))
	}
	return sum
}

func (c *Calculator) round(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.precision)
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
