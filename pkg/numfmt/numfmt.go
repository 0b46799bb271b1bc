// Package numfmt renders decimal amounts as grouped, separator-aware
// strings for display. It is a presentation helper only; nothing in the
// totals computation depends on it.
package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders value at the given precision with the supplied decimal and
// thousand separators. Format(1000.25, 2, ".", ",") yields "1,000.25";
// swapping the separators yields "1.000,25".
func Format(value decimal.Decimal, precision int32, decimalSep, thousandSep string) string {
	fixed := value.StringFixed(precision)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousandSep)
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if precision > 0 {
		out += decimalSep + fracPart
	}
	if negative {
		out = "-" + out
	}
	return out
}
