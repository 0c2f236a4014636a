package middleware

import (
	"strconv"
	"time"

	"github.com/ariebrainware/clinic-booking/util"
	"github.com/gin-gonic/gin"
)

// Metrics records request count, latency and in-flight requests. Paths are
// labelled by route template so IDs and dates do not explode cardinality.
func Metrics(m *util.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlightGauge.Inc()
		defer m.InFlightGauge.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
