package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/invoice/model"
	"phoneshop-backend/internal/domains/invoice/repository"
	"phoneshop-backend/internal/domains/invoice/service"
	productmodel "phoneshop-backend/internal/domains/product/model"
	"phoneshop-backend/internal/shared/response"
)

// =====================================================
// INVOICE HANDLER
// =====================================================
type InvoiceHandler struct {
	invoiceService service.ServiceInterface
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService service.ServiceInterface) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, invoice)
}

func (h *InvoiceHandler) writeCreateError(c *gin.Context, err error) {
	var stockErr *productmodel.InsufficientStockError
	if errors.As(err, &stockErr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, productmodel.ErrCodeInsufficientStock, "Insufficient stock", stockErr.Error())
		return
	}

	var imeiErr *model.IMEIMismatchError
	if errors.As(err, &imeiErr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeIMEIMismatch, "IMEI mismatch", imeiErr.Error())
		return
	}

	switch {
	case errors.Is(err, model.ErrEmptyCart),
		errors.Is(err, model.ErrCustomerContactRequired):
		response.BadRequest(c, err.Error())
	case errors.Is(err, productmodel.ErrProductNotFound):
		response.NotFound(c, "Product not found")
	case errors.Is(err, model.ErrDuplicateInvoiceNumber):
		response.ErrorWithDetails(c, http.StatusConflict, model.ErrCodeDuplicateNumber, "Invoice numbering conflict, retry", err.Error())
	default:
		response.InternalServerError(c, "Failed to create invoice")
	}
}

// GetByID handles GET /invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice id")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrInvoiceNotFound) {
			response.NotFound(c, "Invoice not found")
			return
		}
		response.InternalServerError(c, "Failed to fetch invoice")
		return
	}

	response.Success(c, http.StatusOK, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := repository.ListFilter{
		Status: c.Query("status"),
	}
	filter.Page, filter.Limit = parsePagination(c)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, "Failed to list invoices")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, invoices, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// PayEMI handles POST /invoices/:id/pay-emi
func (h *InvoiceHandler) PayEMI(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice id")
		return
	}

	var req model.PayEMIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.PayInstallment(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvoiceNotFound):
			response.NotFound(c, "Invoice not found")
		case errors.Is(err, model.ErrEMINotFound):
			response.ErrorWithDetails(c, http.StatusNotFound, model.ErrCodeEMINotFound, "EMI details not found for this invoice", err.Error())
		case errors.Is(err, model.ErrInvalidInstallment):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to record installment")
		}
		return
	}

	response.Success(c, http.StatusOK, invoice)
}

// ListEMI handles GET /invoices/emi-list
func (h *InvoiceHandler) ListEMI(c *gin.Context) {
	summaries, err := h.invoiceService.ListEMIActive(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list EMI invoices")
		return
	}

	response.Success(c, http.StatusOK, summaries)
}

func actorID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get("userID")
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, limit = 1, 20
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}
	return page, limit
}
