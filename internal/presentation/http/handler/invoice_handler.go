package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/okello/invoicer-api/internal/application/service"
	"github.com/okello/invoicer-api/internal/config"
	"github.com/okello/invoicer-api/internal/domain/enum"
	"github.com/okello/invoicer-api/internal/domain/repository"
	"github.com/okello/invoicer-api/internal/presentation/http/dto/request"
	"github.com/okello/invoicer-api/internal/presentation/http/dto/response"
	"github.com/okello/invoicer-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	currency       *config.CurrencyConfig
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, currency *config.CurrencyConfig) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, currency: currency}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != 0 {
		status := enum.InvoiceStatus(filter.Status)
		params.Status = &status
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err == nil {
			params.CustomerID = &customerID
		}
	}
	if filter.StartDate != "" {
		if startDate, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &startDate
		}
	}
	if filter.EndDate != "" {
		if endDate, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice with its totals breakdown
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	inv, totals, err := h.invoiceService.GetInvoice(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", response.NewInvoiceDetail(inv, totals, h.currency))
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inv, totals, err := h.invoiceService.CreateInvoice(c.Request.Context(), *userID, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", response.NewInvoiceDetail(inv, totals, h.currency))
}

// Preview computes totals for an invoice without saving it
func (h *InvoiceHandler) Preview(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inv, totals, err := h.invoiceService.PreviewInvoice(c.Request.Context(), *userID, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice totals computed", response.NewInvoiceDetail(inv, totals, h.currency))
}

// Update handles updating an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inv, totals, err := h.invoiceService.UpdateInvoice(c.Request.Context(), *userID, id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", response.NewInvoiceDetail(inv, totals, h.currency))
}

// MarkSent transitions a draft invoice to sent
func (h *InvoiceHandler) MarkSent(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	inv, err := h.invoiceService.MarkSent(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice marked as sent", inv)
}

// RecordPayment applies a payment against an invoice
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inv, err := h.invoiceService.RecordPayment(c.Request.Context(), *userID, id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", inv)
}

// Cancel handles cancelling an invoice
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.CancelInvoice(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice cancelled successfully", nil)
}

// Delete handles deleting an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
