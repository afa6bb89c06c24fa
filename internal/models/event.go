package models

import "fmt"

// EventRecord is a single piece of player telemetry.
type EventRecord struct {
	EventID    string     `json:"eventId,omitempty"`
	Owner      string     `json:"owner" validate:"required"`
	PlayerID   string     `json:"playerId" validate:"required"`
	ActionType ActionType `json:"actionType" validate:"required"`
	Timestamp  int64      `json:"timestamp" validate:"min=0"`
	SessionID  string     `json:"sessionId,omitempty"`
	Metadata   Metadata   `json:"metadata,omitempty"`

	// TTL is the epoch-second expiry stamped at store time; zero until then.
	TTL int64 `json:"-"`

	// InterestingReason records why this event was retained, for
	// diagnostics: the classifier's reason, "detection_feedback" for events
	// retained via the feedback loop, or empty for the always-store set. It
	// is not persisted.
	InterestingReason string `json:"-"`
}

// Key returns the composite primary key for this event: pk = "{owner}#{playerId}",
// sk = "{timestamp}#{eventId}".
func (e EventRecord) Key() (pk, sk string) {
	return PlayerKey(e.Owner, e.PlayerID), fmt.Sprintf("%d#%s", e.Timestamp, e.EventID)
}

// PlayerKey builds the composite pk shared by all three record kinds.
func PlayerKey(owner, playerID string) string {
	return owner + "#" + playerID
}
