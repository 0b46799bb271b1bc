package numfmt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		precision   int32
		decimalSep  string
		thousandSep string
		want        string
	}{
		{"grouped with point decimal", "1000.25", 2, ".", ",", "1,000.25"},
		{"reversed separators", "1000.25", 2, ",", ".", "1.000,25"},
		{"pads to precision", "5", 2, ".", ",", "5.00"},
		{"millions", "1234567.891", 2, ".", ",", "1,234,567.89"},
		{"zero precision drops fraction", "1234.56", 0, ".", ",", "1,235"},
		{"negative", "-1000.25", 2, ".", ",", "-1,000.25"},
		{"small value", "0.5", 2, ".", ",", "0.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := decimal.RequireFromString(tt.value)
			assert.Equal(t, tt.want, Format(value, tt.precision, tt.decimalSep, tt.thousandSep))
		})
	}
}
