package httpserver

import (
	"net/http"

	checkoutsvc "storefront/internal/service/checkout"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func placeOrderHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutsvc.Input
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed checkout request"})
			return
		}
		order, err := deps.Checkout.PlaceOrder(c.Request.Context(), actorFrom(c).UserID, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

type quoteRequest struct {
	CouponCode string `json:"couponCode,omitempty"`
}

func quoteHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quoteRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed quote request"})
				return
			}
		}
		totals, err := deps.Checkout.Quote(c.Request.Context(), actorFrom(c).UserID, req.CouponCode)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"subtotal":       totals.Subtotal,
			"taxAmount":      totals.TaxAmount,
			"shippingAmount": totals.ShippingAmount,
			"discountAmount": totals.DiscountAmount,
			"totalAmount":    totals.TotalAmount,
		})
	}
}
