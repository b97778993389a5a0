package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/customer/model"
	"phoneshop-backend/internal/domains/customer/service"
	"phoneshop-backend/internal/shared/response"
)

// =====================================================
// CUSTOMER HANDLER
// =====================================================
type CustomerHandler struct {
	customerService service.ServiceInterface
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService service.ServiceInterface) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req model.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateMobile) {
			response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeDuplicateMobile, "Customer already exists", err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, customer)
}

// GetByID handles GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			response.NotFound(c, "Customer not found")
			return
		}
		response.InternalServerError(c, "Failed to fetch customer")
		return
	}

	response.Success(c, http.StatusOK, customer)
}

// GetByMobile handles GET /customers/mobile/:mobile
func (h *CustomerHandler) GetByMobile(c *gin.Context) {
	mobile := model.NormalizeMobile(c.Param("mobile"))
	if !model.ValidMobile(mobile) {
		response.BadRequest(c, model.ErrInvalidMobile.Error())
		return
	}

	customer, err := h.customerService.GetByMobile(c.Request.Context(), mobile)
	if err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			response.NotFound(c, "Customer not found")
			return
		}
		response.InternalServerError(c, "Failed to fetch customer")
		return
	}

	response.Success(c, http.StatusOK, customer)
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	page, limit := 1, 20
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	customers, total, err := h.customerService.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list customers")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, customers, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// Update handles PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	var req model.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			response.NotFound(c, "Customer not found")
			return
		}
		if errors.Is(err, model.ErrDuplicateMobile) {
			response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeDuplicateMobile, "Mobile number already in use", err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, customer)
}
