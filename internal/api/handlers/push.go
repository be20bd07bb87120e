package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/notification"
)

// RouteResponse echoes the navigation target a payload resolved to
type RouteResponse struct {
	Target domain.NavigationTarget `json:"target"`
}

// LoginRequest carries the credential of the freshly authenticated user
type LoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// HandleForegroundMessage handles POST /v1/push/foreground
func HandleForegroundMessage(relay *notification.Relay, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		target := relay.HandleForegroundMessage(payload)
		c.JSON(http.StatusOK, RouteResponse{Target: target})
	}
}

// HandleNotificationOpened handles POST /v1/push/opened
func HandleNotificationOpened(relay *notification.Relay, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		target := relay.HandleNotificationOpened(payload)
		c.JSON(http.StatusOK, RouteResponse{Target: target})
	}
}

// HandleInitialNotification handles POST /v1/push/initial, the cold-start
// check. An empty body means the app was not launched from a notification.
func HandleInitialNotification(relay *notification.Relay, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 {
			c.Status(http.StatusNoContent)
			return
		}

		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		target := relay.HandleInitialNotification(&payload)
		if target == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, RouteResponse{Target: *target})
	}
}

// HandleLogin handles POST /v1/session/login
func HandleLogin(relay *notification.Relay, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		relay.OnLogin(c.Request.Context(), req.Credential)
		c.Status(http.StatusNoContent)
	}
}

// HandleLogout handles POST /v1/session/logout. The cart is torn down with
// the session; the relay keeps its cached token value for the next login.
func HandleLogout(store *cart.Store, relay *notification.Relay, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		relay.OnLogout()
		store.Clear()
		c.Status(http.StatusNoContent)
	}
}

// HandleForeground handles POST /v1/session/foreground, the app foreground
// event that opportunistically retries a failed token registration.
func HandleForeground(relay *notification.Relay, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		relay.OnForeground(c.Request.Context())
		c.Status(http.StatusNoContent)
	}
}

func bindPayload(c *gin.Context) (domain.NotificationPayload, bool) {
	var payload domain.NotificationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": err.Error(),
		})
		return payload, false
	}
	return payload, true
}
