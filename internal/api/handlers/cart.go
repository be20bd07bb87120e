package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	Product  domain.Product `json:"product" binding:"required"`
	Quantity int            `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest represents a quantity change. Zero or negative
// removes the item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse represents the cart state returned by every cart endpoint
type CartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func cartResponse(store *cart.Store) CartResponse {
	return CartResponse{
		Items: store.Items(),
		Total: store.Total(),
		Count: store.Count(),
	}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cartResponse(store))
	}
}

// HandleAddItem handles POST /v1/cart/items
func HandleAddItem(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if req.Product.ID == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "product id is required"})
			return
		}

		if _, err := store.AddItem(req.Product, req.Quantity); err != nil {
			if _, ok := err.(*errors.ErrStockExceeded); ok {
				c.JSON(http.StatusConflict, gin.H{"error": "out of stock"})
				return
			}
			logger.Error("Failed to add cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, cartResponse(store))
	}
}

// HandleUpdateQuantity handles PUT /v1/cart/items/:productId
func HandleUpdateQuantity(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		productID := c.Param("productId")
		if _, err := store.UpdateQuantity(productID, req.Quantity); err != nil {
			if _, ok := err.(*errors.ErrItemNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			logger.Error("Failed to update cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, cartResponse(store))
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:productId
func HandleRemoveItem(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("productId")
		if err := store.RemoveItem(productID); err != nil {
			if _, ok := err.(*errors.ErrItemNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			logger.Error("Failed to remove cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, cartResponse(store))
	}
}

// HandleClearCart handles POST /v1/cart/clear
func HandleClearCart(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store.Clear()
		c.JSON(http.StatusOK, cartResponse(store))
	}
}
