package calc

import (
	"github.com/shopspring/decimal"
)

// TaxMode selects how a tax rate interacts with a price: computed and added
// on top of it (exclusive), or already embedded in it and extracted by
// subtraction (inclusive). The two regimes are mutually exclusive per
// invoice.
type TaxMode int

const (
	TaxExclusive TaxMode = iota
	TaxInclusive
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

func (m TaxMode) String() string {
	if m == TaxInclusive {
		return "inclusive"
	}
	return "exclusive"
}

// Tax computes the tax carried by base at the given percentage rate. The
// same formula applies at line level and at invoice level. Exclusive:
// base * rate/100. Inclusive: base - base/(1 + rate/100), the portion of
// base that is tax.
func (m TaxMode) Tax(base, rate decimal.Decimal) decimal.Decimal {
	if m == TaxInclusive {
		divisor := one.Add(rate.Div(hundred))
		if divisor.IsZero() {
			// rate of -100% has no meaningful inclusive extraction; yield
			// a deterministic zero instead of dividing by zero
			return decimal.Zero
		}
		return base.Sub(base.Div(divisor))
	}
	return base.Mul(rate).Div(hundred)
}

// FoldsIntoTotal reports whether computed taxes are added onto the invoice
// total. Inclusive taxes are already part of the line totals and are only
// reported, never added again.
func (m TaxMode) FoldsIntoTotal() bool {
	return m == TaxExclusive
}
