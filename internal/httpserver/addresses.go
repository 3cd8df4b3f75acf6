package httpserver

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func listAddressesHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := deps.Addresses.ListByUser(c.Request.Context(), actorFrom(c).UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if addresses == nil {
			addresses = []domain.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}
