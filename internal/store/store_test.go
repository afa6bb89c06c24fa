package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(config.StoreConfig{
		InMemory:           true,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStore_GetProfile_MissingIsEmptyNotError(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	p, ok, err := st.GetProfile(ctx, "acme", "p1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.PlayerProfile{}, p)
}

func TestStore_PutGetProfile_RoundTrip(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	p := models.PlayerProfile{
		Owner: "acme", PlayerID: "p1", FirstSeen: 100, LastSeen: 200,
		EventCount: 5, RiskScore: 12.5, Status: models.StatusMonitor,
	}
	require.NoError(t, st.PutProfile(ctx, p))

	got, ok, err := st.GetProfile(ctx, "acme", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func TestStore_PutGetFeatures_RoundTrip(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	f := models.PlayerFeatures{
		Owner: "acme", PlayerID: "p1",
		TotalShots: 20, TotalHits: 14, TotalHeadshots: 3,
		Accuracy: 0.7, HeadshotRatio: 0.21428571,
		AccuracySampleCount: 2, AccuracyMean: 0.7, AccuracyM2: 0.02, AccuracyStdDev: 0.1,
		UpdatedAt: 1700000000,
	}
	require.NoError(t, st.PutFeatures(ctx, f))

	got, ok, err := st.GetFeatures(ctx, "acme", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, f.Accuracy, got.Accuracy, 1e-9)
	assert.InDelta(t, f.AccuracyStdDev, got.AccuracyStdDev, 1e-9)
	assert.Equal(t, f.AccuracySampleCount, got.AccuracySampleCount)
}

func TestStore_PutEventsBatch_BestEffort(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	events := []models.EventRecord{
		{EventID: "e1", Owner: "acme", PlayerID: "p1", ActionType: models.ActionSessionStart, Timestamp: 1},
		{EventID: "e2", Owner: "acme", PlayerID: "p1", ActionType: models.ActionWeaponFired, Timestamp: 2},
	}

	result := st.PutEventsBatch(ctx, events, 1700000000)
	assert.Equal(t, 2, result.Stored)
	assert.Equal(t, 0, result.Failed)
}

// Repeated not-found lookups (e.g. a batch full of brand-new players) must
// not trip the circuit breaker: ErrRecordNotFound is a normal outcome, not
// a store failure.
func TestStore_GetProfile_RepeatedNotFoundDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, ok, err := st.GetProfile(ctx, "acme", "new-player")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	// A genuine read after all those misses must still succeed, proving the
	// breaker never opened.
	p := models.PlayerProfile{Owner: "acme", PlayerID: "p1", FirstSeen: 1, LastSeen: 1}
	require.NoError(t, st.PutProfile(ctx, p))
	got, ok, err := st.GetProfile(ctx, "acme", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func TestStore_PutDetectionsBatch(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	detections := []models.DetectionRecord{
		{Owner: "acme", PlayerID: "p1", DetectionID: "d1", DetectorType: models.DetectorZScoreAccuracy, CreatedAt: 1},
	}

	result := st.PutDetectionsBatch(ctx, detections, 1700000000)
	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, 0, result.Failed)
}
