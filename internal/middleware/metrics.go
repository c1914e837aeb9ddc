package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/registra/records-api/internal/service"
)

// Metrics records duration and status per route. It uses the gin route
// pattern rather than the raw URL so path parameters do not explode the
// label cardinality; unmatched paths fall back to the raw URL.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
