package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/riftwatch/sentrytel/internal/models"
)

// GetProfile returns the player's profile record, or the zero value and
// false when none exists; a missing record is treated as empty prior state.
func (s *Store) GetProfile(ctx context.Context, owner, playerID string) (models.PlayerProfile, bool, error) {
	pk := models.PlayerKey(owner, playerID)
	raw, err := s.get(ctx, TablePlayers, pk, "PROFILE")
	if errors.Is(err, ErrRecordNotFound) {
		return models.PlayerProfile{}, false, nil
	}
	if err != nil {
		return models.PlayerProfile{}, false, err
	}

	var w wireProfile
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.PlayerProfile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return fromWireProfile(w), true, nil
}

// GetFeatures returns the player's features record, or the zero value and
// false when none exists.
func (s *Store) GetFeatures(ctx context.Context, owner, playerID string) (models.PlayerFeatures, bool, error) {
	pk := models.PlayerKey(owner, playerID)
	raw, err := s.get(ctx, TablePlayers, pk, "FEATURES")
	if errors.Is(err, ErrRecordNotFound) {
		return models.PlayerFeatures{}, false, nil
	}
	if err != nil {
		return models.PlayerFeatures{}, false, err
	}

	var w wireFeatures
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.PlayerFeatures{}, false, fmt.Errorf("decode features: %w", err)
	}
	return fromWireFeatures(w), true, nil
}

// PutProfile writes the player's profile record. Profile records carry no
// TTL.
func (s *Store) PutProfile(ctx context.Context, p models.PlayerProfile) error {
	pk, sk := p.Key()
	raw, err := json.Marshal(toWireProfile(p))
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.put(ctx, TablePlayers, pk, sk, raw, 0)
}

// PutFeatures writes the player's features record. Features records carry
// no TTL.
func (s *Store) PutFeatures(ctx context.Context, f models.PlayerFeatures) error {
	pk, sk := f.Key()
	raw, err := json.Marshal(toWireFeatures(f))
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	return s.put(ctx, TablePlayers, pk, sk, raw, 0)
}

// BatchResult reports best-effort batch write outcomes: per-record failures
// are logged and counted, never abort the remaining records in the batch.
type BatchResult struct {
	Stored int
	Failed int
	Errors []error
}

// PutEventsBatch persists the given interesting events with TTL =
// ttlSeconds, an absolute expiry in epoch seconds. Per-record failures do
// not abort the batch.
func (s *Store) PutEventsBatch(ctx context.Context, events []models.EventRecord, ttlSeconds int64) BatchResult {
	var result BatchResult
	for _, ev := range events {
		ev.TTL = ttlSeconds
		pk, sk := ev.Key()

		w, err := toWireEvent(ev)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			s.log.Error().Err(err).Str("event_id", ev.EventID).Msg("encode event failed")
			continue
		}
		raw, err := json.Marshal(w)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			continue
		}
		if err := s.put(ctx, TableEvents, pk, sk, raw, ttlSeconds); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			s.log.Error().Err(err).Str("event_id", ev.EventID).Msg("put event failed")
			continue
		}
		result.Stored++
	}
	return result
}

// PutDetectionsBatch persists detection records with TTL = ttlSeconds, an
// absolute expiry in epoch seconds. Per-record failures do not abort the
// batch.
func (s *Store) PutDetectionsBatch(ctx context.Context, detections []models.DetectionRecord, ttlSeconds int64) BatchResult {
	var result BatchResult
	for _, d := range detections {
		d.TTL = ttlSeconds
		pk, sk := d.Key()

		w, err := toWireDetection(d)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			continue
		}
		raw, err := json.Marshal(w)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			continue
		}
		if err := s.put(ctx, TableDetections, pk, sk, raw, ttlSeconds); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			s.log.Error().Err(err).Str("detection_id", d.DetectionID).Msg("put detection failed")
			continue
		}
		result.Stored++
	}
	return result
}
