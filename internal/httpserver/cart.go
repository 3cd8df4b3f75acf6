package httpserver

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func getCartHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := deps.Cart.Get(c.Request.Context(), actorFrom(c).UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if lines == nil {
			lines = []domain.CartLine{}
		}
		c.JSON(http.StatusOK, gin.H{"items": lines})
	}
}

func addCartItemHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId and quantity are required"})
			return
		}
		line, err := deps.Cart.AddItem(c.Request.Context(), actorFrom(c).UserID, req.ProductID, req.Quantity)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, line)
	}
}

func updateCartItemHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		line, err := deps.Cart.UpdateItem(c.Request.Context(), actorFrom(c).UserID, c.Param("productId"), req.Quantity)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func removeCartItemHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Cart.RemoveItem(c.Request.Context(), actorFrom(c).UserID, c.Param("productId")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Cart.Clear(c.Request.Context(), actorFrom(c).UserID); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
