package httpserver

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/metrics"
)

// MetricsMiddleware records per-route request durations. The route
// template (not the raw URL) is used as the path label to keep
// cardinality bounded.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
