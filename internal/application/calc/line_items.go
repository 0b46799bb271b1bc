package calc

import (
	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineItemResult carries the outcome of the per-item pass: the rewritten
// items, their subtotal (after item discounts, before tax), the ledger the
// items contributed into, and the sum of item-level taxes.
type LineItemResult struct {
	SubTotal   decimal.Decimal
	TotalTaxes decimal.Decimal
	Items      []entity.InvoiceItem
	Ledger     *TaxLedger
}

// lineItemCalculator runs the per-item discount and tax pass for one
// computation. The first pass derives each item's tax basis treating the
// invoice discount as a percentage; when the invoice discount is actually a
// fixed amount, recalculateWithAmountDiscount re-derives the ledger and tax
// total afterwards. The per-item LineTotal/GrossLineTotal keep the
// first-pass values either way; downstream renderers read those, so the
// correction deliberately stops at the ledger.
type lineItemCalculator struct {
	mode            TaxMode
	precision       int32
	invoiceDiscount decimal.Decimal
}

// Process computes every item's totals and taxes and returns rewritten
// copies. Callers replace their slice with the returned one; the input
// items are not modified.
func (c *lineItemCalculator) Process(items []entity.InvoiceItem) LineItemResult {
	result := LineItemResult{
		SubTotal:   decimal.Zero,
		TotalTaxes: decimal.Zero,
		Items:      make([]entity.InvoiceItem, len(items)),
		Ledger:     NewTaxLedger(),
	}

	for i := range items {
		item, itemTax := c.processItem(items[i], result.Ledger)
		result.Items[i] = item
		result.SubTotal = result.SubTotal.Add(item.LineTotal)
		result.TotalTaxes = result.TotalTaxes.Add(itemTax)
	}

	return result
}

func (c *lineItemCalculator) processItem(item entity.InvoiceItem, ledger *TaxLedger) (entity.InvoiceItem, decimal.Decimal) {
	lineTotal := c.round(item.Cost.Mul(item.Quantity))

	if item.IsAmountDiscount {
		lineTotal = c.round(lineTotal.Sub(item.Discount))
	} else {
		lineTotal = lineTotal.Sub(c.round(lineTotal.Mul(item.Discount).Div(hundred)))
	}

	// The basis reads the invoice discount as a percentage even when it is
	// amount-based; recalculateWithAmountDiscount corrects the ledger in
	// that case.
	basis := lineTotal.Sub(c.round(lineTotal.Mul(c.invoiceDiscount).Div(hundred)))

	itemTax := decimal.Zero
	for _, slot := range item.TaxSlots() {
		if slot.Name == "" {
			continue
		}
		tax := c.round(c.mode.Tax(basis, slot.Rate))
		itemTax = itemTax.Add(tax)
		ledger.Add(slot.Name, slot.Rate, tax)
	}

	item.LineTotal = lineTotal
	item.GrossLineTotal = lineTotal
	if c.mode.FoldsIntoTotal() {
		item.GrossLineTotal = lineTotal.Add(itemTax)
	}

	return item, itemTax
}

// recalculateWithAmountDiscount re-derives item taxes for an amount-based
// invoice discount by spreading the fixed amount across items in proportion
// to their share of the subtotal. The ledger and the tax total are rebuilt
// from scratch; items with a non-positive line total are excluded. Callers
// must only invoke this with a positive subtotal.
func (c *lineItemCalculator) recalculateWithAmountDiscount(items []entity.InvoiceItem, discount, subTotal decimal.Decimal) (*TaxLedger, decimal.Decimal) {
	ledger := NewTaxLedger()
	totalTaxes := decimal.Zero
	if subTotal.Sign() <= 0 {
		return ledger, totalTaxes
	}

	for i := range items {
		item := &items[i]
		if item.LineTotal.Sign() <= 0 {
			continue
		}
		basis := item.LineTotal.Sub(c.round(item.LineTotal.Mul(discount).Div(subTotal)))
		for _, slot := range item.TaxSlots() {
			if slot.Name == "" {
				continue
			}
			tax := c.round(c.mode.Tax(basis, slot.Rate))
			totalTaxes = totalTaxes.Add(tax)
			ledger.Add(slot.Name, slot.Rate, tax)
		}
	}

	return ledger, totalTaxes
}

func (c *lineItemCalculator) round(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.precision)
}
