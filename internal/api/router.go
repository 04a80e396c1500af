package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/nextplate/billing/internal/api/v1"
	"github.com/nextplate/billing/internal/rest/middleware"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Webhook *v1.WebhookHandler
	Sync    *v1.SyncHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)

	router.GET("/health", handlers.Health.Health)

	apiGroup := router.Group("/api")
	registerAPIRoutes(apiGroup, handlers)

	return router
}

func registerAPIRoutes(router *gin.RouterGroup, handlers Handlers) {
	// Stripe webhook ingress
	stripeGroup := router.Group("/stripe")
	{
		stripeGroup.POST("/webhook", handlers.Webhook.HandleStripeWebhook)
	}

	// Manual reconciliation, intended to sit behind an admin proxy
	admin := router.Group("/admin")
	{
		sync := admin.Group("/sync")
		{
			sync.POST("/products", handlers.Sync.SyncProducts)
			sync.POST("/prices", handlers.Sync.SyncPrices)
			sync.POST("/catalog", handlers.Sync.SyncCatalog)
		}
	}
}
