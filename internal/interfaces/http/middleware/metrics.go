package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts, latency and in-flight gauge.  Routes are
// labeled with the gin template path so IDs do not explode cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		m.HTTPInFlight.Inc()
		c.Next()
		m.HTTPInFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(started))
	}
}
