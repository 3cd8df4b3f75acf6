package httpserver

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func listProductsHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := deps.Catalog.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := deps.Catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func upsertProductHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Product
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed product"})
			return
		}
		product, err := deps.Catalog.Upsert(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
