package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shophub/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Re-hosted product images
	router.Static(cfg.Uploads.BaseURL, cfg.Uploads.Dir)

	// API routes
	api := router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/suggestions", handler.Suggestions)
			products.GET("/:id", handler.GetProduct)
			products.POST("/import", handler.ImportProduct)
			products.POST("/compare", handler.CompareProducts)
		}
	}

	return router
}
