package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/securitypro/oms_backend/internal/platform/metrics"
)

// Metrics records request counts and latencies labelled by route template.
func Metrics(m *metrics.Collectors) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
