package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/riftwatch/sentrytel/internal/logging"
)

// RequestID generates (or propagates) a request ID for each HTTP request,
// exposes it on the response header, and stamps it plus a fresh correlation
// ID onto the request context for structured logging and for Handle's
// response requestId field.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
