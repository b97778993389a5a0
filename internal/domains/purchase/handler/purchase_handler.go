package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	productmodel "phoneshop-backend/internal/domains/product/model"
	"phoneshop-backend/internal/domains/purchase/model"
	"phoneshop-backend/internal/domains/purchase/service"
	"phoneshop-backend/internal/shared/response"
)

// =====================================================
// PURCHASE HANDLER
// =====================================================
type PurchaseHandler struct {
	purchaseService service.ServiceInterface
	buybackService  service.BuyBackServiceInterface
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService service.ServiceInterface, buybackService service.BuyBackServiceInterface) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		buybackService:  buybackService,
	}
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req model.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), req)
	if err != nil {
		var fieldsErr *model.NewProductFieldsError
		switch {
		case errors.As(err, &fieldsErr):
			response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeNewProductFields, "Incomplete product master data", fieldsErr.Error())
		case errors.Is(err, model.ErrEmptyPurchase):
			response.BadRequest(c, err.Error())
		case errors.Is(err, productmodel.ErrProductNotFound):
			response.NotFound(c, "Product not found")
		default:
			response.InternalServerError(c, "Failed to record purchase")
		}
		return
	}

	response.Success(c, http.StatusCreated, purchase)
}

// GetByID handles GET /purchases/:id
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid purchase id")
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPurchaseNotFound) {
			response.NotFound(c, "Purchase not found")
			return
		}
		response.InternalServerError(c, "Failed to fetch purchase")
		return
	}

	response.Success(c, http.StatusOK, purchase)
}

// List handles GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	purchases, total, err := h.purchaseService.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list purchases")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, purchases, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// CreateBuyBack handles POST /purchases/buy-back
func (h *PurchaseHandler) CreateBuyBack(c *gin.Context) {
	var req model.CreateBuyBackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	buyback, err := h.buybackService.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		var heldErr *model.IMEIAlreadyHeldError
		switch {
		case errors.As(err, &heldErr):
			response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeIMEIAlreadyHeld, "IMEI already held", heldErr.Error())
		case errors.Is(err, model.ErrInvalidIMEIs), errors.Is(err, model.ErrInvalidSellerPhone):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to record buy-back")
		}
		return
	}

	response.Success(c, http.StatusCreated, buyback)
}

// ListBuyBacks handles GET /purchases/buy-back
func (h *PurchaseHandler) ListBuyBacks(c *gin.Context) {
	page, limit := parsePagination(c)

	buybacks, total, err := h.buybackService.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list buy-backs")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, buybacks, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// UpdateBuyBackStatus handles PATCH /purchases/buy-back/:id/status
func (h *PurchaseHandler) UpdateBuyBackStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid buy-back id")
		return
	}

	var req model.UpdateBuyBackStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	buyback, err := h.buybackService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBuyBackNotFound):
			response.NotFound(c, "Buy-back record not found")
		case errors.Is(err, model.ErrSoldToRequired), errors.Is(err, model.ErrInvalidBuyBackState):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to update buy-back")
		}
		return
	}

	response.Success(c, http.StatusOK, buyback)
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
