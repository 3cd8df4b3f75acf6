package httpserver

import (
	"net/http"
	"strings"
	"time"

	ordersvc "storefront/internal/service/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"

	ctxActorKey = "actor"
)

// identityMiddleware trusts the identity headers set by the upstream auth
// gateway. Requests without a user id are rejected; no credential checks
// happen here.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(headerUserID))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}
		c.Set(ctxActorKey, ordersvc.Actor{
			UserID: userID,
			Role:   strings.TrimSpace(c.GetHeader(headerUserRole)),
		})
		c.Next()
	}
}

func actorFrom(c *gin.Context) ordersvc.Actor {
	if v, ok := c.Get(ctxActorKey); ok {
		if actor, ok := v.(ordersvc.Actor); ok {
			return actor
		}
	}
	return ordersvc.Actor{}
}

func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
