package calc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxKey identifies one distinct tax for aggregation. Rate is the canonical
// string form of the percentage so equal rates collide regardless of scale.
type TaxKey struct {
	Name string
	Rate string
}

// TaxGroup is one row of the consolidated tax breakdown.
type TaxGroup struct {
	Name  string          `json:"name"`
	Rate  decimal.Decimal `json:"rate"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// TaxLedger accumulates tax amounts per (name, rate) bucket. Line items and
// invoice-level tax slots that share a name and rate land in the same
// bucket. A ledger is built fresh on every computation; it is never
// persisted on its own.
type TaxLedger struct {
	groups map[TaxKey]*TaxGroup
	order  []TaxKey
}

// NewTaxLedger returns an empty ledger.
func NewTaxLedger() *TaxLedger {
	return &TaxLedger{groups: make(map[TaxKey]*TaxGroup)}
}

// Add contributes amount into the (name, rate) bucket, creating the bucket
// on first contribution.
func (l *TaxLedger) Add(name string, rate, amount decimal.Decimal) {
	key := TaxKey{Name: name, Rate: rate.String()}
	group, ok := l.groups[key]
	if !ok {
		group = &TaxGroup{
			Name:  name,
			Rate:  rate,
			Label: TaxLabel(name, rate),
			Total: decimal.Zero,
		}
		l.groups[key] = group
		l.order = append(l.order, key)
	}
	group.Total = group.Total.Add(amount)
}

// Entries returns the buckets in the order they were first contributed to.
// Bucket totals do not depend on contribution order.
func (l *TaxLedger) Entries() []TaxGroup {
	entries := make([]TaxGroup, 0, len(l.order))
	for _, key := range l.order {
		entries = append(entries, *l.groups[key])
	}
	return entries
}

// Total sums every bucket.
func (l *TaxLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, key := range l.order {
		total = total.Add(l.groups[key].Total)
	}
	return total
}

// TaxLabel renders the display label for a named rate, e.g. "GST 10 %".
func TaxLabel(name string, rate decimal.Decimal) string {
	return fmt.Sprintf("%s %s %%", name, rate.String())
}
