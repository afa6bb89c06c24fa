package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/goccy/go-json"

	"github.com/riftwatch/sentrytel/internal/logging"
)

// recoveredResponse mirrors the shape of internal/api.Response for the
// failure case. Recoverer cannot import internal/api (it would be imported
// back by internal/api/server.go), so the shape is duplicated here rather
// than shared.
type recoveredResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId"`
	Error     string `json:"error"`
}

// Recoverer catches a panic anywhere downstream, logs it with a stack
// trace, and writes a 500 response in the same shape Handle uses for any
// other failure instead of closing the connection with no body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				requestID := logging.RequestIDFromContext(r.Context())
				logging.WithComponent("api").Error().
					Str("request_id", requestID).
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Msg("recovered from panic")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(recoveredResponse{
					Success:   false,
					RequestID: requestID,
					Error:     "Internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
