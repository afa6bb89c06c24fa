package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/riftwatch/sentrytel/internal/metrics"
)

// Prometheus records HTTP request duration against m, labeled by route and
// status code.
func Prometheus(m *metrics.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusCapturingWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			m.HTTPRequestDuration.
				WithLabelValues(route, strconv.Itoa(wrapper.statusCode)).
				Observe(time.Since(start).Seconds())
		})
	}
}

// statusCapturingWriter wraps http.ResponseWriter to capture the status
// code written, since the standard interface does not expose it after
// the fact.
type statusCapturingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusCapturingWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
