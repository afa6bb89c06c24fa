package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/models"
	"github.com/riftwatch/sentrytel/internal/store"
)

func testRules() config.RulesConfig {
	return config.RulesConfig{
		EventTTLDays:                 90,
		ZScoreThreshold:              3.0,
		MinSamplesForDetection:       100,
		AccuracyInterestingThreshold: 0.7,
		HeadshotInterestingThreshold: 0.5,
		MinShotsForInteresting:       5,
		HighDamageThreshold:          100,
		AccuracyRiskThreshold:        0.5,
		HeadshotRiskThreshold:        0.3,
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(config.StoreConfig{
		InMemory:           true,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func fixedClock(ms int64) Clock {
	return func() int64 { return ms }
}

// An empty batch is a legal no-op with no store writes and zero counters.
func TestRun_EmptyBatchIsNoOp(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	orch := New(st, testRules(), 1, fixedClock(1_700_000_000_000), nil)

	summary := orch.Run(context.Background(), "acme", nil)

	assert.Equal(t, 0, summary.EventsReceived)
	assert.Equal(t, 0, summary.EventsStored)
	assert.Equal(t, 0, summary.PlayersUpdated)
	assert.Equal(t, 0, summary.DetectionsCreated)
	assert.NotEmpty(t, summary.RequestID)
}

// S7 (abbreviated): a batch spanning two distinct players updates both
// players' profiles/features independently and the summary's counters
// reflect the union of both players' outcomes.
func TestRun_MultiPlayerBatchUpdatesEachIndependently(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	orch := New(st, testRules(), 1, fixedClock(1_700_000_000_000), nil)

	events := []models.EventRecord{
		weaponFired("p1", 10, 8, 2),
		weaponFired("p2", 10, 3, 0),
	}

	summary := orch.Run(context.Background(), "acme", events)

	assert.Equal(t, 2, summary.EventsReceived)
	assert.Equal(t, 2, summary.PlayersUpdated)

	f1, ok, err := st.GetFeatures(context.Background(), "acme", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.8, f1.Accuracy, 1e-9)

	f2, ok, err := st.GetFeatures(context.Background(), "acme", "p2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.3, f2.Accuracy, 1e-9)
}

func TestRun_ProfileFirstSeenStableAcrossBatches(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	orch := New(st, testRules(), 1, fixedClock(1_000_000), nil)

	orch.Run(context.Background(), "acme", []models.EventRecord{weaponFired("p1", 10, 8, 2)})

	orch2 := New(st, testRules(), 1, fixedClock(2_000_000), nil)
	orch2.Run(context.Background(), "acme", []models.EventRecord{weaponFired("p1", 10, 6, 1)})

	profile, ok, err := st.GetProfile(context.Background(), "acme", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1_000_000), profile.FirstSeen, "firstSeen must not change on subsequent batches")
	assert.Equal(t, int64(2_000_000), profile.LastSeen)
	assert.LessOrEqual(t, profile.FirstSeen, profile.LastSeen)
}

func TestRun_EventsSkippedEqualsReceivedMinusInteresting(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	orch := New(st, testRules(), 1, fixedClock(1_700_000_000_000), nil)

	// shots=4 is below MinShotsForInteresting, so this event is never
	// classified interesting and should count as skipped.
	events := []models.EventRecord{weaponFired("p1", 4, 4, 0)}
	summary := orch.Run(context.Background(), "acme", events)

	assert.Equal(t, 1, summary.EventsReceived)
	assert.Equal(t, 0, summary.EventsStored)
	assert.Equal(t, 1, summary.EventsSkipped)
}

func TestRun_DetectionFeedbackLoopRetainsFlaggedPlayerEvents(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	// Seed prior features with AccuracySampleCount already above
	// MinSamplesForDetection so this batch's single weapon-fired event
	// triggers the z-score rule with a large deviation from the seeded mean.
	prior := models.PlayerFeatures{
		Owner: "acme", PlayerID: "p1",
		AccuracySampleCount: 149, AccuracyMean: 0.3, AccuracyM2: 149 * 0.01,
	}
	require.NoError(t, st.PutFeatures(context.Background(), prior))

	orch := New(st, testRules(), 1, fixedClock(1_700_000_000_000), nil)

	// A low-shots event that would otherwise never be "interesting" on its
	// own, but should be retained via the feedback loop once its player is
	// flagged by the z-score detector.
	ev := weaponFired("p1", 1, 1, 0)
	ev.EventID = "feedback-target"

	summary := orch.Run(context.Background(), "acme", []models.EventRecord{ev})

	require.Equal(t, 1, summary.DetectionsCreated, "seeded prior state should push the z-score rule over threshold")
	assert.Equal(t, 1, summary.EventsStored, "flagged player's event must be retained via feedback loop")
}

func weaponFired(playerID string, shots, hits, headshots int64) models.EventRecord {
	return models.EventRecord{
		EventID:    playerID + "-ev",
		Owner:      "acme",
		PlayerID:   playerID,
		ActionType: models.ActionWeaponFired,
		Metadata: models.Metadata{
			"shots":     float64(shots),
			"hits":      float64(hits),
			"headshots": float64(headshots),
		},
	}
}
