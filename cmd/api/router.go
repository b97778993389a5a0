package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneshop-backend/internal/shared/middleware"
	"phoneshop-backend/internal/shared/response"
	"phoneshop-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupProductRoutes(v1, c)
		setupOfferRoutes(v1, c)
		setupCustomerRoutes(v1, c)
		setupInvoiceRoutes(v1, c)
		setupPurchaseRoutes(v1, c)
	}

	return router
}

// ========================================
// PRODUCT ROUTES
// ========================================
func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	products.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		products.POST("", c.ProductHandler.Create)
		products.GET("", c.ProductHandler.List)
		products.GET("/low-stock", c.ProductHandler.ListLowStock)
		products.GET("/:id", c.ProductHandler.GetByID)
		products.PUT("/:id", c.ProductHandler.Update)
		products.DELETE("/:id", c.ProductHandler.Delete)
	}
}

// ========================================
// OFFER ROUTES
// ========================================
func setupOfferRoutes(v1 *gin.RouterGroup, c *container.Container) {
	offers := v1.Group("/offers")
	offers.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		offers.POST("", c.OfferHandler.Create)
		offers.GET("", c.OfferHandler.List)
		offers.GET("/preview/:productId", c.OfferHandler.Preview)
		offers.GET("/:id", c.OfferHandler.GetByID)
		offers.PUT("/:id", c.OfferHandler.Update)
		offers.DELETE("/:id", c.OfferHandler.Delete)
	}
}

// ========================================
// CUSTOMER ROUTES
// ========================================
func setupCustomerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	customers := v1.Group("/customers")
	customers.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		customers.POST("", c.CustomerHandler.Create)
		customers.GET("", c.CustomerHandler.List)
		customers.GET("/mobile/:mobile", c.CustomerHandler.GetByMobile)
		customers.GET("/:id", c.CustomerHandler.GetByID)
		customers.PUT("/:id", c.CustomerHandler.Update)
	}
}

// ========================================
// INVOICE ROUTES
// ========================================
func setupInvoiceRoutes(v1 *gin.RouterGroup, c *container.Container) {
	invoices := v1.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		invoices.POST("", c.InvoiceHandler.Create)
		invoices.GET("", c.InvoiceHandler.List)
		invoices.GET("/emi-list", c.InvoiceHandler.ListEMI)
		invoices.GET("/:id", c.InvoiceHandler.GetByID)
		invoices.POST("/:id/pay-emi", c.InvoiceHandler.PayEMI)
	}
}

// ========================================
// PURCHASE ROUTES
// ========================================
func setupPurchaseRoutes(v1 *gin.RouterGroup, c *container.Container) {
	purchases := v1.Group("/purchases")
	purchases.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		purchases.POST("", c.PurchaseHandler.Create)
		purchases.GET("", c.PurchaseHandler.List)
		purchases.POST("/buy-back", c.PurchaseHandler.CreateBuyBack)
		purchases.GET("/buy-back", c.PurchaseHandler.ListBuyBacks)
		purchases.PATCH("/buy-back/:id/status", c.PurchaseHandler.UpdateBuyBackStatus)
		purchases.GET("/:id", c.PurchaseHandler.GetByID)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbStatus := "up"
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "up"
		if err := c.Cache.HealthCheck(ctx.Request.Context()); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus == "down" {
			status = http.StatusServiceUnavailable
		}

		response.Success(ctx, status, gin.H{
			"service":  c.Config.App.Name,
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
