package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okello/invoicer-api/internal/application/service"
	"github.com/okello/invoicer-api/internal/domain/enum"
)

// InvoiceItemRequest represents one line item in an invoice request
type InvoiceItemRequest struct {
	TypeID           int             `json:"type_id" binding:"omitempty,min=1,max=3"`
	ProductKey       string          `json:"product_key" binding:"omitempty,max=255"`
	Notes            string          `json:"notes"`
	Quantity         decimal.Decimal `json:"quantity"`
	Cost             decimal.Decimal `json:"cost"`
	Discount         decimal.Decimal `json:"discount"`
	IsAmountDiscount bool            `json:"is_amount_discount"`
	TaxName1         string          `json:"tax_name1" binding:"omitempty,max=100"`
	TaxRate1         decimal.Decimal `json:"tax_rate1"`
	TaxName2         string          `json:"tax_name2" binding:"omitempty,max=100"`
	TaxRate2         decimal.Decimal `json:"tax_rate2"`
	TaxName3         string          `json:"tax_name3" binding:"omitempty,max=100"`
	TaxRate3         decimal.Decimal `json:"tax_rate3"`
}

// SaveInvoiceRequest represents an invoice create, update, or preview request
type SaveInvoiceRequest struct {
	CustomerID          *uuid.UUID           `json:"customer_id"`
	InvoiceDate         *time.Time           `json:"invoice_date"`
	DueDate             *time.Time           `json:"due_date"`
	Discount            decimal.Decimal      `json:"discount"`
	IsAmountDiscount    bool                 `json:"is_amount_discount"`
	TaxName1            string               `json:"tax_name1" binding:"omitempty,max=100"`
	TaxRate1            decimal.Decimal      `json:"tax_rate1"`
	TaxName2            string               `json:"tax_name2" binding:"omitempty,max=100"`
	TaxRate2            decimal.Decimal      `json:"tax_rate2"`
	TaxName3            string               `json:"tax_name3" binding:"omitempty,max=100"`
	TaxRate3            decimal.Decimal      `json:"tax_rate3"`
	CustomSurcharge1    decimal.Decimal      `json:"custom_surcharge1"`
	CustomSurcharge2    decimal.Decimal      `json:"custom_surcharge2"`
	CustomSurcharge3    decimal.Decimal      `json:"custom_surcharge3"`
	CustomSurcharge4    decimal.Decimal      `json:"custom_surcharge4"`
	CustomSurchargeTax1 bool                 `json:"custom_surcharge_tax1"`
	CustomSurchargeTax2 bool                 `json:"custom_surcharge_tax2"`
	CustomSurchargeTax3 bool                 `json:"custom_surcharge_tax3"`
	CustomSurchargeTax4 bool                 `json:"custom_surcharge_tax4"`
	UsesInclusiveTaxes  bool                 `json:"uses_inclusive_taxes"`
	Partial             decimal.Decimal      `json:"partial"`
	PartialDueDate      *time.Time           `json:"partial_due_date"`
	PublicNotes         string               `json:"public_notes"`
	Items               []InvoiceItemRequest `json:"line_items" binding:"dive"`
}

// ToInput converts the request into a service input
func (r *SaveInvoiceRequest) ToInput() *service.InvoiceInput {
	items := make([]service.LineItemInput, len(r.Items))
	for i, item := range r.Items {
		typeID := enum.ItemType(item.TypeID)
		if item.TypeID == 0 {
			typeID = enum.ItemTypeProduct
		}
		items[i] = service.LineItemInput{
			TypeID:           typeID,
			ProductKey:       item.ProductKey,
			Notes:            item.Notes,
			Quantity:         item.Quantity,
			Cost:             item.Cost,
			Discount:         item.Discount,
			IsAmountDiscount: item.IsAmountDiscount,
			TaxName1:         item.TaxName1,
			TaxRate1:         item.TaxRate1,
			TaxName2:         item.TaxName2,
			TaxRate2:         item.TaxRate2,
			TaxName3:         item.TaxName3,
			TaxRate3:         item.TaxRate3,
		}
	}

	return &service.InvoiceInput{
		CustomerID:          r.CustomerID,
		InvoiceDate:         r.InvoiceDate,
		DueDate:             r.DueDate,
		Discount:            r.Discount,
		IsAmountDiscount:    r.IsAmountDiscount,
		TaxName1:            r.TaxName1,
		TaxRate1:            r.TaxRate1,
		TaxName2:            r.TaxName2,
		TaxRate2:            r.TaxRate2,
		TaxName3:            r.TaxName3,
		TaxRate3:            r.TaxRate3,
		CustomSurcharge1:    r.CustomSurcharge1,
		CustomSurcharge2:    r.CustomSurcharge2,
		CustomSurcharge3:    r.CustomSurcharge3,
		CustomSurcharge4:    r.CustomSurcharge4,
		CustomSurchargeTax1: r.CustomSurchargeTax1,
		CustomSurchargeTax2: r.CustomSurchargeTax2,
		CustomSurchargeTax3: r.CustomSurchargeTax3,
		CustomSurchargeTax4: r.CustomSurchargeTax4,
		UsesInclusiveTaxes:  r.UsesInclusiveTaxes,
		Partial:             r.Partial,
		PartialDueDate:      r.PartialDueDate,
		PublicNotes:         r.PublicNotes,
		Items:               items,
	}
}

// PaymentRequest represents a payment against an invoice
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Search     string `form:"search"`
	Status     int    `form:"status"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
