package httpserver

import (
	"errors"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors to HTTP statuses. Business-rule violations
// carry enough detail for the client to amend the cart; anything else returns
// a generic message so internal state never leaks.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr  *domain.ValidationError
		stockErr       *domain.StockError
		unavailableErr *domain.ProductUnavailableError
		transitionErr  *domain.InvalidTransitionError
	)

	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     stockErr.Error(),
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.As(err, &unavailableErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     unavailableErr.Error(),
			"productId": unavailableErr.ProductID,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	default:
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
