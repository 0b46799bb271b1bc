package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/okello/invoicer-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the aggregate being totaled: a header plus its line items.
// Amount, Balance, TotalTaxes and Partial are outputs of the calculation
// engine and must not be edited directly; the engine rewrites them on every
// recompute. An ID of uuid.Nil means the invoice has never been persisted.
type Invoice struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`

	InvoiceNo   string             `gorm:"size:100;unique;not null" json:"invoice_no"`
	Status      enum.InvoiceStatus `gorm:"default:1" json:"status"`
	InvoiceDate time.Time          `gorm:"type:date" json:"invoice_date"`
	DueDate     *time.Time         `gorm:"type:date" json:"due_date,omitempty"`

	// Invoice-level discount: a fixed amount or a percentage of the subtotal.
	Discount         decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"discount"`
	IsAmountDiscount bool            `gorm:"default:false" json:"is_amount_discount"`

	// Three independently named invoice-level tax slots. An empty name means
	// the slot is inactive.
	TaxName1 string          `gorm:"size:100" json:"tax_name1"`
	TaxRate1 decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"tax_rate1"`
	TaxName2 string          `gorm:"size:100" json:"tax_name2"`
	TaxRate2 decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"tax_rate2"`
	TaxName3 string          `gorm:"size:100" json:"tax_name3"`
	TaxRate3 decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"tax_rate3"`

	// Up to four fixed surcharges, each optionally subject to the invoice
	// tax rates.
	CustomSurcharge1    decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"custom_surcharge1"`
	CustomSurcharge2    decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"custom_surcharge2"`
	CustomSurcharge3    decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"custom_surcharge3"`
	CustomSurcharge4    decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"custom_surcharge4"`
	CustomSurchargeTax1 bool            `gorm:"default:false" json:"custom_surcharge_tax1"`
	CustomSurchargeTax2 bool            `gorm:"default:false" json:"custom_surcharge_tax2"`
	CustomSurchargeTax3 bool            `gorm:"default:false" json:"custom_surcharge_tax3"`
	CustomSurchargeTax4 bool            `gorm:"default:false" json:"custom_surcharge_tax4"`

	// Selects the pricing regime: taxes added on top of prices, or taxes
	// already embedded in them.
	UsesInclusiveTaxes bool `gorm:"default:false" json:"uses_inclusive_taxes"`

	Amount         decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"amount"`
	Balance        decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"balance"`
	TotalTaxes     decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"total_taxes"`
	Partial        decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"partial"`
	PartialDueDate *time.Time      `gorm:"type:date" json:"partial_due_date,omitempty"`

	PublicNotes string `gorm:"type:text" json:"public_notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User      User          `gorm:"foreignKey:UserID" json:"-"`
	Customer  *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	LineItems []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsPersisted reports whether the invoice has ever been saved.
func (i *Invoice) IsPersisted() bool {
	return i.ID != uuid.Nil
}

// TaxSlot is one named percentage rate, attachable to a line item or to the
// invoice as a whole.
type TaxSlot struct {
	Name string
	Rate decimal.Decimal
}

// TaxSlots returns the three invoice-level tax slots, inactive ones included.
func (i *Invoice) TaxSlots() []TaxSlot {
	return []TaxSlot{
		{Name: i.TaxName1, Rate: i.TaxRate1},
		{Name: i.TaxName2, Rate: i.TaxRate2},
		{Name: i.TaxName3, Rate: i.TaxRate3},
	}
}

// Surcharge is one fixed invoice-level charge and whether the invoice tax
// rates apply to it.
type Surcharge struct {
	Amount decimal.Decimal
	Taxed  bool
}

// Surcharges returns the four surcharge slots in order.
func (i *Invoice) Surcharges() []Surcharge {
	return []Surcharge{
		{Amount: i.CustomSurcharge1, Taxed: i.CustomSurchargeTax1},
		{Amount: i.CustomSurcharge2, Taxed: i.CustomSurchargeTax2},
		{Amount: i.CustomSurcharge3, Taxed: i.CustomSurchargeTax3},
		{Amount: i.CustomSurcharge4, Taxed: i.CustomSurchargeTax4},
	}
}

// InvoiceItem is one billable row on an invoice. LineTotal and
// GrossLineTotal are outputs of the calculation engine; in the exclusive tax
// regime GrossLineTotal is LineTotal plus the item's taxes, in the inclusive
// regime the two are equal.
type InvoiceItem struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID     `gorm:"type:uuid;not null;index" json:"invoice_id"`
	TypeID    enum.ItemType `gorm:"default:1" json:"type_id"`

	ProductKey string `gorm:"size:255" json:"product_key"`
	Notes      string `gorm:"type:text" json:"notes"`

	Quantity decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"quantity"`
	Cost     decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"cost"`

	Discount         decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"discount"`
	IsAmountDiscount bool            `gorm:"default:false" json:"is_amount_discount"`

	TaxName1 string          `gorm:"size:100" json:"tax_name1"`
	TaxRate1 decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"tax_rate1"`
	TaxName2 string          `gorm:"size:100" json:"tax_name2"`
	TaxRate2 decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"tax_rate2"`
	TaxName3 string          `gorm:"size:100" json:"tax_name3"`
	TaxRate3 decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"tax_rate3"`

	LineTotal      decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"line_total"`
	GrossLineTotal decimal.Decimal `gorm:"type:numeric(20,6);default:0" json:"gross_line_total"`

	SortOrder int `gorm:"default:0" json:"sort_order"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// TaxSlots returns the item's three tax slots, inactive ones included.
func (it *InvoiceItem) TaxSlots() []TaxSlot {
	return []TaxSlot{
		{Name: it.TaxName1, Rate: it.TaxRate1},
		{Name: it.TaxName2, Rate: it.TaxRate2},
		{Name: it.TaxName3, Rate: it.TaxRate3},
	}
}
