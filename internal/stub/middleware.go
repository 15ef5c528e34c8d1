package stub

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/metrics"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

// requestID reuses the caller's X-Request-ID and puts it on the request context.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(client.HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
			c.Request.Header.Set(client.HeaderRequestID, rid)
		}
		c.Writer.Header().Set(client.HeaderRequestID, rid)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordStubRequest(c.Request.Method, route, c.Writer.Status())
		log.L(c.Request.Context()).Debugw("stub request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", client.HeaderRequestID},
		ExposeHeaders:    []string{client.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
