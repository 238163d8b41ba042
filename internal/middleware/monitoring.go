package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/govindup63/Ghstmail.me/internal/monitoring"
)

// HTTPMetrics records per-request prometheus metrics.
func HTTPMetrics(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		metrics.RecordHTTPRequest(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
