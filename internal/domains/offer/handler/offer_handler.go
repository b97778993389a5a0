package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/offer/model"
	"phoneshop-backend/internal/domains/offer/service"
	productmodel "phoneshop-backend/internal/domains/product/model"
	productservice "phoneshop-backend/internal/domains/product/service"
	"phoneshop-backend/internal/shared/response"
)

// =====================================================
// OFFER HANDLER
// =====================================================
type OfferHandler struct {
	offerService   service.ServiceInterface
	resolver       service.ResolverInterface
	productService productservice.ServiceInterface
}

// NewOfferHandler creates a new offer handler
func NewOfferHandler(offerService service.ServiceInterface, resolver service.ResolverInterface, productService productservice.ServiceInterface) *OfferHandler {
	return &OfferHandler{
		offerService:   offerService,
		resolver:       resolver,
		productService: productService,
	}
}

// Create handles POST /offers
func (h *OfferHandler) Create(c *gin.Context) {
	var req model.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	offer, err := h.offerService.Create(c.Request.Context(), req)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidOffer, "Offer validation failed", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, offer)
}

// GetByID handles GET /offers/:id
func (h *OfferHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid offer id")
		return
	}

	offer, err := h.offerService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrOfferNotFound) {
			response.NotFound(c, "Offer not found")
			return
		}
		response.InternalServerError(c, "Failed to fetch offer")
		return
	}

	response.Success(c, http.StatusOK, offer)
}

// List handles GET /offers
func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.offerService.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list offers")
		return
	}

	response.Success(c, http.StatusOK, offers)
}

// Update handles PUT /offers/:id
func (h *OfferHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid offer id")
		return
	}

	var req model.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	offer, err := h.offerService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, model.ErrOfferNotFound) {
			response.NotFound(c, "Offer not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, offer)
}

// Delete handles DELETE /offers/:id
func (h *OfferHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid offer id")
		return
	}

	if err := h.offerService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrOfferNotFound) {
			response.NotFound(c, "Offer not found")
			return
		}
		response.InternalServerError(c, "Failed to delete offer")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Offer removed"})
}

// Preview handles GET /offers/preview/:productId. It quotes the discounted
// unit price a cart would get right now, without touching stock or creating
// anything.
func (h *OfferHandler) Preview(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	quantity := 1
	if n, err := strconv.Atoi(c.Query("quantity")); err == nil && n > 0 {
		quantity = n
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, productmodel.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalServerError(c, "Failed to fetch product")
		return
	}

	quote, err := h.resolver.Resolve(c.Request.Context(), product.ID, product.Category, product.SellingPrice, quantity, time.Now())
	if err != nil {
		response.InternalServerError(c, "Failed to resolve offers")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"product_id":     product.ID,
		"product_name":   product.Name,
		"quantity":       quantity,
		"original_price": product.SellingPrice,
		"final_price":    quote.Price,
		"discount":       quote.Discount,
		"offer_applied":  quote.OfferName,
	})
}
