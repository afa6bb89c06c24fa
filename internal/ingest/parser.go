// Package ingest parses the inbound gateway request body into validated
// event records and derives the batch's tenant.
package ingest

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/riftwatch/sentrytel/internal/logging"
	"github.com/riftwatch/sentrytel/internal/models"
	"github.com/riftwatch/sentrytel/internal/validation"
)

// ErrInvalidJSON is returned when the request body cannot be parsed as
// JSON. Callers map this to a 400 response with no state mutation.
var ErrInvalidJSON = errors.New("ingest: invalid JSON in request body")

// ParsedBatch is the result of parsing one request body.
type ParsedBatch struct {
	// Owner is the derived tenant for this batch, taken from the first
	// event's owner field.
	Owner  string
	Events []models.EventRecord
}

// requestBody is the wire shape of body.events.
type requestBody struct {
	Events []models.EventRecord `json:"events"`
}

// Parse accepts either a raw JSON object or a JSON-encoded string, parsing
// it as JSON first when it arrives as a string. An empty event list is a
// legal no-op, handled by the caller and not treated specially here beyond
// returning an empty ParsedBatch.
func Parse(body any) (ParsedBatch, error) {
	raw, err := normalizeToJSON(body)
	if err != nil {
		return ParsedBatch{}, ErrInvalidJSON
	}

	var parsed requestBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ParsedBatch{}, ErrInvalidJSON
	}

	if len(parsed.Events) == 0 {
		return ParsedBatch{}, nil
	}

	owner := deriveTenant(parsed.Events)
	events := coerceTenant(owner, parsed.Events)
	assignMissingEventIDs(events)
	logSoftValidationIssues(events)

	return ParsedBatch{Owner: owner, Events: events}, nil
}

// logSoftValidationIssues runs struct validation per event purely for
// diagnostics. Missing fields or malformed values are tolerated with
// conservative defaults rather than failing the batch, so a validation miss
// is logged and the event still proceeds through the pipeline unchanged.
func logSoftValidationIssues(events []models.EventRecord) {
	log := logging.WithComponent("ingest")
	for _, ev := range events {
		if verr := validation.ValidateStruct(&ev); verr != nil {
			log.Warn().
				Str("event_id", ev.EventID).
				Str("player_id", ev.PlayerID).
				Str("validation", verr.Error()).
				Msg("event failed soft validation, proceeding with defaults")
		}
	}
}

// assignMissingEventIDs fills in eventId with a generated UUID when absent.
func assignMissingEventIDs(events []models.EventRecord) {
	for i := range events {
		if events[i].EventID == "" {
			events[i].EventID = uuid.NewString()
		}
	}
}

// normalizeToJSON re-marshals an already-decoded body (a map/slice from an
// outer JSON envelope) or, when body arrived as a JSON string, returns its
// bytes directly for a second parse pass.
func normalizeToJSON(body any) ([]byte, error) {
	if s, ok := body.(string); ok {
		return []byte(s), nil
	}
	return json.Marshal(body)
}

// deriveTenant derives the batch's tenant identifier from the first event's
// owner field.
func deriveTenant(events []models.EventRecord) string {
	return events[0].Owner
}

// coerceTenant implements this service's documented choice for mixed-tenant
// batches: every event is attributed to the derived tenant rather than any
// being dropped, with a per-event warning when an event's own owner field
// disagreed with the batch's derived owner.
func coerceTenant(owner string, events []models.EventRecord) []models.EventRecord {
	for i := range events {
		if events[i].Owner != owner {
			logging.WithComponent("ingest").Warn().
				Str("expected_owner", owner).
				Str("event_owner", events[i].Owner).
				Str("player_id", events[i].PlayerID).
				Msg("coercing event to batch tenant")
			events[i].Owner = owner
		}
	}
	return events
}
