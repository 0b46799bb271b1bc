package response

import (
	"github.com/okello/invoicer-api/internal/application/calc"
	"github.com/okello/invoicer-api/internal/config"
	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/okello/invoicer-api/pkg/numfmt"
)

// InvoiceDetail bundles an invoice with its computed totals breakdown
type InvoiceDetail struct {
	Invoice   *entity.Invoice  `json:"invoice"`
	Totals    calc.Result      `json:"totals"`
	Formatted *FormattedTotals `json:"formatted,omitempty"`
}

// FormattedTotals carries display-ready monetary strings
type FormattedTotals struct {
	SubTotal   string `json:"sub_total"`
	TotalTaxes string `json:"total_taxes"`
	Amount     string `json:"amount"`
	Balance    string `json:"balance"`
}

// NewInvoiceDetail builds an invoice detail with totals formatted per the
// currency configuration
func NewInvoiceDetail(inv *entity.Invoice, totals calc.Result, cur *config.CurrencyConfig) InvoiceDetail {
	detail := InvoiceDetail{Invoice: inv, Totals: totals}
	if cur != nil {
		detail.Formatted = &FormattedTotals{
			SubTotal:   numfmt.Format(totals.SubTotal, cur.Precision, cur.DecimalSep, cur.ThousandSep),
			TotalTaxes: numfmt.Format(totals.TotalTaxes, cur.Precision, cur.DecimalSep, cur.ThousandSep),
			Amount:     numfmt.Format(totals.Amount, cur.Precision, cur.DecimalSep, cur.ThousandSep),
			Balance:    numfmt.Format(totals.Balance, cur.Precision, cur.DecimalSep, cur.ThousandSep),
		}
	}
	return detail
}
