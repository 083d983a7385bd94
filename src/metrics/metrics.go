package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rentroll_http_requests_total",
		Help: "Count of HTTP requests by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// Middleware counts requests per route template and status
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// Handler serves the Prometheus exposition endpoint
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
