package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/notification"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, store *cart.Store, relay *notification.Relay, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.API.KeyHash, logger))
	{
		cartRoutes := v1.Group("/cart")
		{
			cartRoutes.GET("", handlers.HandleGetCart(store, logger))
			cartRoutes.POST("/items", handlers.HandleAddItem(store, logger))
			cartRoutes.PUT("/items/:productId", handlers.HandleUpdateQuantity(store, logger))
			cartRoutes.DELETE("/items/:productId", handlers.HandleRemoveItem(store, logger))
			cartRoutes.POST("/clear", handlers.HandleClearCart(store, logger))
		}

		// Push delivery entry points: one route per delivery mode, all
		// resolving through the same payload router.
		pushRoutes := v1.Group("/push")
		{
			pushRoutes.POST("/foreground", handlers.HandleForegroundMessage(relay, logger))
			pushRoutes.POST("/opened", handlers.HandleNotificationOpened(relay, logger))
			pushRoutes.POST("/initial", handlers.HandleInitialNotification(relay, logger))
		}

		sessionRoutes := v1.Group("/session")
		{
			sessionRoutes.POST("/login", handlers.HandleLogin(relay, logger))
			sessionRoutes.POST("/logout", handlers.HandleLogout(store, relay, logger))
			sessionRoutes.POST("/foreground", handlers.HandleForeground(relay, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
