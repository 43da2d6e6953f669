package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/octavehouse/storefront/internal/api/v1"
	"github.com/octavehouse/storefront/internal/audit"
	"github.com/octavehouse/storefront/internal/config"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/rest/middleware"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Webhook   *v1.WebhookHandler
	Inventory *v1.InventoryHandler
	Chapter   *v1.ChapterHandler
	Checkout  *v1.CheckoutHandler
	Order     *v1.OrderHandler
	Waitlist  *v1.WaitlistHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, auditLog audit.Logger, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, cfg, auditLog, log)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, cfg *config.Configuration, auditLog audit.Logger, log *logger.Logger) {
	// Webhook routes
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/payment", handlers.Webhook.HandlePaymentEvent)
	}

	// Storefront routes
	router.GET("/inventory/:id", handlers.Inventory.GetStock)
	router.GET("/chapters", handlers.Chapter.ListChapters)
	router.POST("/checkout", handlers.Checkout.CreateSession)
	router.POST("/waitlist", handlers.Waitlist.Join)

	// Admin routes, owner token required
	admin := router.Group("/admin")
	admin.Use(middleware.OwnerAuthMiddleware(cfg, auditLog, log))
	{
		admin.POST("/chapters", handlers.Chapter.UpdateChapter)
		admin.GET("/orders", handlers.Order.ListOrders)
		admin.GET("/orders/:id", handlers.Order.GetOrder)
		admin.POST("/orders/:id/confirmation", handlers.Order.AdvanceConfirmation)
		admin.POST("/orders/:id/tracking", handlers.Order.SetTracking)
	}
}
