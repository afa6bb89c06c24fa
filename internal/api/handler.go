package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/riftwatch/sentrytel/internal/ingest"
	"github.com/riftwatch/sentrytel/internal/logging"
	"github.com/riftwatch/sentrytel/internal/pipeline"
)

// Handle is the pure request/response core: parse the gateway
// body, run the batch orchestrator, and shape the result. It takes no
// dependency on net/http so it can be driven directly from tests or from
// any transport (the chi server in server.go is one such transport).
func Handle(ctx context.Context, orch *pipeline.Orchestrator, req Request) Response {
	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	start := time.Now()
	log := logging.WithComponent("api")

	batch, err := ingest.Parse(req.Body)
	if err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("rejecting malformed request body")
		return Response{
			Success:   false,
			Error:     "Invalid JSON in request body",
			RequestID: requestID,
		}
	}

	summary := orch.Run(ctx, batch.Owner, batch.Events)
	summary.RequestID = requestID

	return Response{
		Success:           true,
		EventsReceived:    summary.EventsReceived,
		EventsStored:      summary.EventsStored,
		EventsSkipped:     summary.EventsSkipped,
		PlayersUpdated:    summary.PlayersUpdated,
		DetectionsCreated: summary.DetectionsCreated,
		ProcessingTimeMs:  time.Since(start).Milliseconds(),
		RequestID:         requestID,
	}
}

// IsParseError reports whether resp represents a body-parse failure, the
// only failure mode Handle maps to a 400 rather than a 500.
func IsParseError(resp Response) bool {
	return !resp.Success && resp.Error == "Invalid JSON in request body"
}
