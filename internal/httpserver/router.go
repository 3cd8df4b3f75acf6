package httpserver

import (
	addressrepo "storefront/internal/repository/address"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Deps holds the services the handlers depend on.
type Deps struct {
	Catalog   *catalogsvc.Service
	Cart      *cartsvc.Service
	Checkout  *checkoutsvc.Service
	Orders    *ordersvc.Service
	Addresses addressrepo.Repository
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	if len(corsOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = corsOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, headerUserID, headerUserRole)
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	api.GET("/products", listProductsHandler(deps, logger))
	api.GET("/products/:id", getProductHandler(deps, logger))

	authed := api.Group("", identityMiddleware())

	authed.GET("/cart", getCartHandler(deps, logger))
	authed.POST("/cart/items", addCartItemHandler(deps, logger))
	authed.PATCH("/cart/items/:productId", updateCartItemHandler(deps, logger))
	authed.DELETE("/cart/items/:productId", removeCartItemHandler(deps, logger))
	authed.DELETE("/cart", clearCartHandler(deps, logger))

	authed.POST("/checkout", placeOrderHandler(deps, logger))
	authed.POST("/checkout/quote", quoteHandler(deps, logger))

	authed.PUT("/products", adminOnly(), upsertProductHandler(deps, logger))

	authed.GET("/addresses", listAddressesHandler(deps, logger))

	authed.GET("/orders", listOrdersHandler(deps, logger))
	authed.GET("/orders/:id", getOrderHandler(deps, logger))
	authed.POST("/orders/:id/cancel", cancelOrderHandler(deps, logger))
	authed.POST("/orders/:id/status", adminOnly(), transitionOrderHandler(deps, logger))

	return router
}
