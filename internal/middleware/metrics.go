package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRecorder registra as métricas de cada requisição
type HTTPRecorder interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Metrics mede duração e status por rota. inFlight pode ser nil.
func Metrics(recorder HTTPRecorder, inFlight prometheus.Gauge) gin.HandlerFunc {
	return func(c *gin.Context) {
		if inFlight != nil {
			inFlight.Inc()
			defer inFlight.Dec()
		}
		start := time.Now()

		c.Next()

		// a rota, não o path, para não explodir a cardinalidade com slugs
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
