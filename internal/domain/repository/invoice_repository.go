package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/okello/invoicer-api/internal/domain/enum"
	"github.com/okello/invoicer-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	// ReplaceItems swaps the persisted line items for the recomputed set.
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceItem) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
