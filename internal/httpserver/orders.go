package httpserver

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func listOrdersHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := deps.Orders.ListForUser(c.Request.Context(), actorFrom(c).UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.Orders.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func cancelOrderHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.Orders.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func transitionOrderHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		order, err := deps.Orders.Transition(c.Request.Context(), actorFrom(c), c.Param("id"), domain.OrderStatus(req.Status))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
