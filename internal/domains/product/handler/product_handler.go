package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/product/model"
	"phoneshop-backend/internal/domains/product/repository"
	"phoneshop-backend/internal/domains/product/service"
	"phoneshop-backend/internal/shared/response"
)

// =====================================================
// PRODUCT HANDLER
// =====================================================
type ProductHandler struct {
	productService service.ServiceInterface
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService service.ServiceInterface) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCategory) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidCategory, "Product validation failed", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, product)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalServerError(c, "Failed to fetch product")
		return
	}

	response.Success(c, http.StatusOK, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	filter := repository.ListFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
	}
	filter.Page, filter.Limit = parsePagination(c)

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, "Failed to list products")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, product)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalServerError(c, "Failed to delete product")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Product removed"})
}

// ListLowStock handles GET /products/low-stock
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	products, err := h.productService.ListLowStock(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list low-stock products")
		return
	}

	response.Success(c, http.StatusOK, products)
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
