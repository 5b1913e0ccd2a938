// internal/middleware/metrics.go
package middleware

import (
	"strconv"
	"time"

	"expense-ledger/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency per route template, so
// /users/1 and /users/2 share a series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
