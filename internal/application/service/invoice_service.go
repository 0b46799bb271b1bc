package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okello/invoicer-api/internal/application/calc"
	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/okello/invoicer-api/internal/domain/enum"
	"github.com/okello/invoicer-api/internal/domain/repository"
	"github.com/okello/invoicer-api/pkg/apperror"
	"github.com/okello/invoicer-api/pkg/pagination"
	"github.com/okello/invoicer-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice-related operations. All totals on a
// persisted invoice come out of the calculation engine; the service never
// writes Amount/Balance/TotalTaxes by hand except when recording payments.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	precision    int32
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	precision int32,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		precision:    precision,
	}
}

// LineItemInput represents one line of an invoice input
type LineItemInput struct {
	TypeID           enum.ItemType
	ProductKey       string
	Notes            string
	Quantity         decimal.Decimal
	Cost             decimal.Decimal
	Discount         decimal.Decimal
	IsAmountDiscount bool
	TaxName1         string
	TaxRate1         decimal.Decimal
	TaxName2         string
	TaxRate2         decimal.Decimal
	TaxName3         string
	TaxRate3         decimal.Decimal
}

// InvoiceInput represents the fields a caller controls on an invoice.
// Totals are derived, never accepted from the caller.
type InvoiceInput struct {
	CustomerID          *uuid.UUID
	InvoiceDate         *time.Time
	DueDate             *time.Time
	Discount            decimal.Decimal
	IsAmountDiscount    bool
	TaxName1            string
	TaxRate1            decimal.Decimal
	TaxName2            string
	TaxRate2            decimal.Decimal
	TaxName3            string
	TaxRate3            decimal.Decimal
	CustomSurcharge1    decimal.Decimal
	CustomSurcharge2    decimal.Decimal
	CustomSurcharge3    decimal.Decimal
	CustomSurcharge4    decimal.Decimal
	CustomSurchargeTax1 bool
	CustomSurchargeTax2 bool
	CustomSurchargeTax3 bool
	CustomSurchargeTax4 bool
	UsesInclusiveTaxes  bool
	Partial             decimal.Decimal
	PartialDueDate      *time.Time
	PublicNotes         string
	Items               []LineItemInput
}

func (s *InvoiceService) applyInput(inv *entity.Invoice, input *InvoiceInput) {
	inv.CustomerID = input.CustomerID
	if input.InvoiceDate != nil {
		inv.InvoiceDate = *input.InvoiceDate
	}
	inv.DueDate = input.DueDate
	inv.Discount = input.Discount
	inv.IsAmountDiscount = input.IsAmountDiscount
	inv.TaxName1 = input.TaxName1
	inv.TaxRate1 = input.TaxRate1
	inv.TaxName2 = input.TaxName2
	inv.TaxRate2 = input.TaxRate2
	inv.TaxName3 = input.TaxName3
	inv.TaxRate3 = input.TaxRate3
	inv.CustomSurcharge1 = input.CustomSurcharge1
	inv.CustomSurcharge2 = input.CustomSurcharge2
	inv.CustomSurcharge3 = input.CustomSurcharge3
	inv.CustomSurcharge4 = input.CustomSurcharge4
	inv.CustomSurchargeTax1 = input.CustomSurchargeTax1
	inv.CustomSurchargeTax2 = input.CustomSurchargeTax2
	inv.CustomSurchargeTax3 = input.CustomSurchargeTax3
	inv.CustomSurchargeTax4 = input.CustomSurchargeTax4
	inv.UsesInclusiveTaxes = input.UsesInclusiveTaxes
	inv.Partial = input.Partial
	inv.PartialDueDate = input.PartialDueDate
	inv.PublicNotes = input.PublicNotes

	items := make([]entity.InvoiceItem, len(input.Items))
	for i, in := range input.Items {
		items[i] = entity.InvoiceItem{
			TypeID:           in.TypeID,
			ProductKey:       in.ProductKey,
			Notes:            in.Notes,
			Quantity:         in.Quantity,
			Cost:             in.Cost,
			Discount:         in.Discount,
			IsAmountDiscount: in.IsAmountDiscount,
			TaxName1:         in.TaxName1,
			TaxRate1:         in.TaxRate1,
			TaxName2:         in.TaxName2,
			TaxRate2:         in.TaxRate2,
			TaxName3:         in.TaxName3,
			TaxRate3:         in.TaxRate3,
			SortOrder:        i,
		}
	}
	inv.LineItems = items
}

func (s *InvoiceService) validateCustomer(ctx context.Context, customerID *uuid.UUID) error {
	if customerID == nil {
		return nil
	}
	customer, err := s.customerRepo.GetByID(ctx, *customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return nil
}

// CreateInvoice creates a draft invoice with computed totals
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID uuid.UUID, input *InvoiceInput) (*entity.Invoice, calc.Result, error) {
	if err := s.validateCustomer(ctx, input.CustomerID); err != nil {
		return nil, calc.Result{}, err
	}

	inv := &entity.Invoice{
		UserID:      userID,
		InvoiceNo:   utils.GenerateInvoiceNo("INV-"),
		Status:      enum.InvoiceStatusDraft,
		InvoiceDate: time.Now(),
	}
	s.applyInput(inv, input)

	// Computed before the first save, so the partial clamp for unsaved
	// invoices applies.
	result := calc.ForInvoice(inv, s.precision).Calculate(inv)

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, calc.Result{}, err
	}

	return inv, result, nil
}

// PreviewInvoice computes totals without persisting anything
func (s *InvoiceService) PreviewInvoice(ctx context.Context, userID uuid.UUID, input *InvoiceInput) (*entity.Invoice, calc.Result, error) {
	inv := &entity.Invoice{
		UserID:      userID,
		Status:      enum.InvoiceStatusDraft,
		InvoiceDate: time.Now(),
	}
	s.applyInput(inv, input)

	result := calc.ForInvoice(inv, s.precision).Calculate(inv)
	return inv, result, nil
}

// UpdateInvoice replaces the editable fields and recomputes totals.
// Payments already recorded against the invoice survive the recompute.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, userID, id uuid.UUID, input *InvoiceInput) (*entity.Invoice, calc.Result, error) {
	inv, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, calc.Result{}, err
	}
	if inv == nil {
		return nil, calc.Result{}, apperror.NewNotFoundError("Invoice")
	}
	if inv.UserID != userID {
		return nil, calc.Result{}, apperror.ErrForbidden
	}
	if inv.Status == enum.InvoiceStatusCancelled {
		return nil, calc.Result{}, apperror.NewBadRequestError("Cancelled invoices cannot be edited")
	}

	if err := s.validateCustomer(ctx, input.CustomerID); err != nil {
		return nil, calc.Result{}, err
	}

	s.applyInput(inv, input)
	result := calc.ForInvoice(inv, s.precision).Calculate(inv)

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, calc.Result{}, err
	}
	if err := s.invoiceRepo.ReplaceItems(ctx, inv.ID, inv.LineItems); err != nil {
		return nil, calc.Result{}, err
	}

	return inv, result, nil
}

// GetInvoice retrieves an invoice with its line items and a freshly
// computed tax breakdown
func (s *InvoiceService) GetInvoice(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, calc.Result, error) {
	inv, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, calc.Result{}, err
	}
	if inv == nil {
		return nil, calc.Result{}, apperror.NewNotFoundError("Invoice")
	}
	if inv.UserID != userID {
		return nil, calc.Result{}, apperror.ErrForbidden
	}

	// Recompute for the breakdown table; the persisted totals are already
	// settled, and recomputation of unchanged inputs reproduces them.
	result := calc.ForInvoice(inv, s.precision).Calculate(inv)
	return inv, result, nil
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, userID uuid.UUID, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// MarkSent transitions a draft to sent and settles its balance
func (s *InvoiceService) MarkSent(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if inv.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	if inv.Status != enum.InvoiceStatusDraft {
		return nil, apperror.NewBadRequestError("Only draft invoices can be marked sent")
	}

	inv.Status = enum.InvoiceStatusSent
	calc.ForInvoice(inv, s.precision).Calculate(inv)

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RecordPayment applies a payment against the invoice balance. The reduced
// balance is what future recomputations read as the paid-to-date marker.
func (s *InvoiceService) RecordPayment(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if inv.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	if inv.Status == enum.InvoiceStatusDraft {
		return nil, apperror.NewBadRequestError("Payments cannot be recorded against a draft invoice")
	}
	if inv.Status == enum.InvoiceStatusCancelled {
		return nil, apperror.NewBadRequestError("Payments cannot be recorded against a cancelled invoice")
	}
	if amount.Sign() <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}
	if amount.GreaterThan(inv.Balance) {
		return nil, apperror.NewBadRequestError("Payment exceeds the outstanding balance")
	}

	inv.Balance = inv.Balance.Sub(amount)
	if inv.Balance.IsZero() {
		inv.Status = enum.InvoiceStatusPaid
	} else {
		inv.Status = enum.InvoiceStatusPartial
	}

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// CancelInvoice cancels an invoice
func (s *InvoiceService) CancelInvoice(ctx context.Context, userID, id uuid.UUID) error {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	if inv.UserID != userID {
		return apperror.ErrForbidden
	}
	if inv.Status == enum.InvoiceStatusCancelled {
		return apperror.NewBadRequestError("Invoice is already cancelled")
	}

	return s.invoiceRepo.UpdateStatus(ctx, id, enum.InvoiceStatusCancelled)
}

// DeleteInvoice soft-deletes an invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, userID, id uuid.UUID) error {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	if inv.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.invoiceRepo.Delete(ctx, id)
}
