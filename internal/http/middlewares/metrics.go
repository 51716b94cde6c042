package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dropDatabas3/flagbox/internal/metrics"
)

// WithMetrics registra contador y latencia por request.
// La etiqueta de ruta es el patrón registrado, no el path crudo, para no
// explotar la cardinalidad con IDs.
func WithMetrics(route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
