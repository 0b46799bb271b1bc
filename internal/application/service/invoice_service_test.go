package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/okello/invoicer-api/internal/domain/enum"
	"github.com/okello/invoicer-api/internal/domain/repository"
	"github.com/okello/invoicer-api/pkg/apperror"
)

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*entity.Invoice
	items    map[uuid.UUID][]entity.InvoiceItem
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[uuid.UUID]*entity.Invoice),
		items:    make(map[uuid.UUID][]entity.InvoiceItem),
	}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	stored := *inv
	r.invoices[inv.ID] = &stored
	r.items[inv.ID] = inv.LineItems
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	copied := *inv
	return &copied, nil
}

func (r *fakeInvoiceRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	inv, err := r.GetByID(ctx, id)
	if inv != nil {
		inv.LineItems = r.items[id]
	}
	return inv, err
}

func (r *fakeInvoiceRepo) GetByInvoiceNo(_ context.Context, invoiceNo string) (*entity.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNo == invoiceNo {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	stored := *inv
	r.invoices[inv.ID] = &stored
	return nil
}

func (r *fakeInvoiceRepo) ReplaceItems(_ context.Context, invoiceID uuid.UUID, items []entity.InvoiceItem) error {
	r.items[invoiceID] = items
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	if inv, ok := r.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	delete(r.items, id)
	return nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, userID uuid.UUID, _ *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ uuid.UUID, _ *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func newTestService() (*InvoiceService, *fakeInvoiceRepo, *fakeCustomerRepo) {
	invoiceRepo := newFakeInvoiceRepo()
	customerRepo := newFakeCustomerRepo()
	return NewInvoiceService(invoiceRepo, customerRepo, 2), invoiceRepo, customerRepo
}

func taxedInput() *InvoiceInput {
	return &InvoiceInput{
		TaxName1: "GST",
		TaxRate1: decimal.NewFromInt(10),
		Items: []LineItemInput{
			{
				TypeID:   enum.ItemTypeProduct,
				Quantity: decimal.NewFromInt(2),
				Cost:     decimal.NewFromInt(100),
			},
		},
	}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	svc, repo, _ := newTestService()
	userID := uuid.New()

	inv, totals, err := svc.CreateInvoice(context.Background(), userID, taxedInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.InvoiceNo, "INV-"))
	assert.Equal(t, enum.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "200", totals.SubTotal.String())
	assert.Equal(t, "20", totals.TotalTaxes.String())
	assert.Equal(t, "220", totals.Amount.String())
	assert.Equal(t, "220", totals.Balance.String())

	stored, err := repo.GetWithItems(context.Background(), inv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "220", stored.Amount.String())
	assert.Len(t, stored.LineItems, 1)
}

func TestCreateInvoiceClampsPartial(t *testing.T) {
	svc, _, _ := newTestService()

	input := taxedInput()
	input.Partial = decimal.NewFromInt(1000)

	inv, totals, err := svc.CreateInvoice(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	assert.Equal(t, "220", totals.Partial.String())
	assert.Equal(t, "220", inv.Partial.String())
}

func TestCreateInvoiceRejectsUnknownCustomer(t *testing.T) {
	svc, _, _ := newTestService()

	input := taxedInput()
	missing := uuid.New()
	input.CustomerID = &missing

	_, _, err := svc.CreateInvoice(context.Background(), uuid.New(), input)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	svc, repo, _ := newTestService()

	_, totals, err := svc.PreviewInvoice(context.Background(), uuid.New(), taxedInput())
	require.NoError(t, err)

	assert.Equal(t, "220", totals.Amount.String())
	assert.Empty(t, repo.invoices)
}

func TestUpdateInvoiceForbiddenForOtherUser(t *testing.T) {
	svc, _, _ := newTestService()
	owner := uuid.New()

	inv, _, err := svc.CreateInvoice(context.Background(), owner, taxedInput())
	require.NoError(t, err)

	_, _, err = svc.UpdateInvoice(context.Background(), uuid.New(), inv.ID, taxedInput())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestUpdatePreservesRecordedPayments(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()

	inv, _, err := svc.CreateInvoice(context.Background(), userID, taxedInput())
	require.NoError(t, err)

	_, err = svc.MarkSent(context.Background(), userID, inv.ID)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), userID, inv.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	// Unchanged inputs recompute to the same total, so the balance still
	// reflects the payment.
	updated, totals, err := svc.UpdateInvoice(context.Background(), userID, inv.ID, taxedInput())
	require.NoError(t, err)

	assert.Equal(t, "220", totals.Amount.String())
	assert.Equal(t, "120", updated.Balance.String())
}

func TestMarkSentOnlyFromDraft(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()

	inv, _, err := svc.CreateInvoice(context.Background(), userID, taxedInput())
	require.NoError(t, err)

	sent, err := svc.MarkSent(context.Background(), userID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusSent, sent.Status)
	assert.Equal(t, "220", sent.Balance.String())

	_, err = svc.MarkSent(context.Background(), userID, inv.ID)
	assert.Error(t, err)
}

func TestRecordPaymentRejectsDraft(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()

	inv, _, err := svc.CreateInvoice(context.Background(), userID, taxedInput())
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), userID, inv.ID, decimal.NewFromInt(10))
	assert.Error(t, err)
}

func TestRecordPaymentTransitions(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()

	inv, _, err := svc.CreateInvoice(context.Background(), userID, taxedInput())
	require.NoError(t, err)
	_, err = svc.MarkSent(context.Background(), userID, inv.ID)
	require.NoError(t, err)

	partial, err := svc.RecordPayment(context.Background(), userID, inv.ID, decimal.NewFromInt(120))
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPartial, partial.Status)
	assert.Equal(t, "100", partial.Balance.String())

	paid, err := svc.RecordPayment(context.Background(), userID, inv.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, paid.Status)
	assert.True(t, paid.Balance.IsZero())
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()

	inv, _, err := svc.CreateInvoice(context.Background(), userID, taxedInput())
	require.NoError(t, err)
	_, err = svc.MarkSent(context.Background(), userID, inv.ID)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), userID, inv.ID, decimal.NewFromInt(500))
	assert.Error(t, err)

	_, err = svc.RecordPayment(context.Background(), userID, inv.ID, decimal.Zero)
	assert.Error(t, err)
}

func TestCancelBlocksFurtherEdits(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()

	inv, _, err := svc.CreateInvoice(context.Background(), userID, taxedInput())
	require.NoError(t, err)

	require.NoError(t, svc.CancelInvoice(context.Background(), userID, inv.ID))

	_, _, err = svc.UpdateInvoice(context.Background(), userID, inv.ID, taxedInput())
	assert.Error(t, err)

	err = svc.CancelInvoice(context.Background(), userID, inv.ID)
	assert.Error(t, err)
}
