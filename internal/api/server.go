package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riftwatch/sentrytel/internal/logging"
	"github.com/riftwatch/sentrytel/internal/metrics"
	"github.com/riftwatch/sentrytel/internal/middleware"
	"github.com/riftwatch/sentrytel/internal/pipeline"
)

// ingestRequest is the wire shape POSTed to /ingest: the gateway-shaped
// body/headers envelope, flattened for a direct HTTP POST rather than
// routed through a separate gateway product.
type ingestRequest struct {
	Body any `json:"body"`
}

// NewServer builds the dev/ops HTTP front end: POST /ingest drives Handle,
// GET /metrics exposes the Prometheus registry. Authentication and the
// production API gateway are external concerns this module does not
// implement; request headers are not inspected by the core.
func NewServer(orch *pipeline.Orchestrator, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware())

	r.With(middleware.Prometheus(m, "/ingest")).Post("/ingest", ingestHandler(orch))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthzHandler())

	return r
}

func corsMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
}

func ingestHandler(orch *pipeline.Orchestrator) http.HandlerFunc {
	log := logging.WithComponent("api")
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body ingestRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{
				Success:   false,
				Error:     "Invalid JSON in request body",
				RequestID: logging.RequestIDFromContext(ctx),
			})
			return
		}

		resp := Handle(ctx, orch, Request{Body: body.Body})
		status := resp.StatusCode(IsParseError(resp))
		if !resp.Success {
			log.Error().Str("request_id", resp.RequestID).Str("error", resp.Error).Msg("ingest request failed")
		}
		writeJSON(w, status, resp)
	}
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ShutdownTimeout is how long the dev server waits for in-flight requests
// to finish during graceful shutdown (cmd/server/main.go).
const ShutdownTimeout = 10 * time.Second

// Shutdown gracefully stops srv, bounded by ShutdownTimeout.
func Shutdown(ctx context.Context, srv *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
