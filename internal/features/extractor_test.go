package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/models"
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

func weaponFired(shots, hits, headshots int64) models.EventRecord {
	return models.EventRecord{
		EventID:    "e1",
		Owner:      "acme",
		PlayerID:   "p1",
		ActionType: models.ActionWeaponFired,
		Metadata: models.Metadata{
			"shots":     float64(shots),
			"hits":      float64(hits),
			"headshots": float64(headshots),
		},
	}
}

// A single WEAPON_FIRED event with shots=10/hits=8/headshots=2 crosses
// the accuracy-interesting threshold (0.8 >= 0.7) and seeds Welford state
// with n=1, mean=0.8, stddev=0.
func TestExtract_HighAccuracySingleBatch(t *testing.T) {
	t.Parallel()

	result := Extract(testRules(), models.PlayerFeatures{}, []models.EventRecord{weaponFired(10, 8, 2)})

	require.Len(t, result.Interesting, 1)
	assert.Equal(t, "high_accuracy:0.80", result.Interesting[0].Reason)

	f := result.Features
	assert.Equal(t, int64(1), f.AccuracySampleCount)
	assert.InDelta(t, 0.8, f.AccuracyMean, 1e-9)
	assert.InDelta(t, 0.0, f.AccuracyStdDev, 1e-9)
	assert.InDelta(t, 0.8, f.Accuracy, 1e-9)
}

// A second batch (shots=10/hits=6) merged against the first batch's
// output produces accuracySampleCount=2, mean=0.7, M2=0.02, stddev=0.1.
func TestExtract_WelfordTwoBatchMerge(t *testing.T) {
	t.Parallel()

	first := Extract(testRules(), models.PlayerFeatures{}, []models.EventRecord{weaponFired(10, 8, 2)})
	second := Extract(testRules(), first.Features, []models.EventRecord{weaponFired(10, 6, 1)})

	f := second.Features
	assert.Equal(t, int64(2), f.AccuracySampleCount)
	assert.InDelta(t, 0.7, f.AccuracyMean, 1e-9)
	assert.InDelta(t, 0.02, f.AccuracyM2, 1e-9)
	assert.InDelta(t, 0.1, f.AccuracyStdDev, 1e-9)

	// cumulative totals: 20 shots, 14 hits -> accuracy 0.7
	assert.Equal(t, int64(20), f.TotalShots)
	assert.Equal(t, int64(14), f.TotalHits)
	assert.InDelta(t, 0.7, f.Accuracy, 1e-9)
}

func TestExtract_HighHeadshotRatio(t *testing.T) {
	t.Parallel()

	// 10 shots, 4 hits, 3 headshots -> accuracy 0.4 (below 0.7), headshot
	// ratio 3/4 = 0.75 (above 0.5) -> high_headshot reason.
	result := Extract(testRules(), models.PlayerFeatures{}, []models.EventRecord{weaponFired(10, 4, 3)})

	require.Len(t, result.Interesting, 1)
	assert.Equal(t, "high_headshot:0.75", result.Interesting[0].Reason)
}

func TestExtract_BelowMinShotsNeverInteresting(t *testing.T) {
	t.Parallel()

	// shots=4 is below MinShotsForInteresting=5, even though accuracy is 1.0.
	result := Extract(testRules(), models.PlayerFeatures{}, []models.EventRecord{weaponFired(4, 4, 0)})

	assert.Empty(t, result.Interesting)
	// Welford still accumulates regardless of the interestingness gate.
	assert.Equal(t, int64(1), result.Features.AccuracySampleCount)
}

func TestExtract_AlwaysStoreEventsBypassStatistics(t *testing.T) {
	t.Parallel()

	ev := models.EventRecord{EventID: "e2", Owner: "acme", PlayerID: "p1", ActionType: models.ActionPlayerKilled}
	result := Extract(testRules(), models.PlayerFeatures{}, []models.EventRecord{ev})

	require.Len(t, result.Interesting, 1)
	assert.Equal(t, "e2", result.Interesting[0].Event.EventID)
	assert.Equal(t, int64(1), result.Features.TotalKills)
	assert.Equal(t, int64(0), result.Features.AccuracySampleCount, "kills carry no shot data")
}

func TestExtract_HighDamagePlayerAttack(t *testing.T) {
	t.Parallel()

	ev := models.EventRecord{
		EventID: "e3", Owner: "acme", PlayerID: "p1",
		ActionType: models.ActionPlayerAttack,
		Metadata:   models.Metadata{"damage": float64(150)},
	}
	result := Extract(testRules(), models.PlayerFeatures{}, []models.EventRecord{ev})

	require.Len(t, result.Interesting, 1)
	assert.Equal(t, "high_damage:150", result.Interesting[0].Reason)
}

// hits may exceed shots in malformed upstream telemetry; the extractor
// accepts this without clamping or panicking, so accuracy can legitimately
// exceed 1.
func TestExtract_HitsExceedingShotsIsNotClamped(t *testing.T) {
	t.Parallel()

	result := Extract(testRules(), models.PlayerFeatures{}, []models.EventRecord{weaponFired(5, 8, 0)})

	f := result.Features
	assert.Equal(t, int64(5), f.TotalShots)
	assert.Equal(t, int64(8), f.TotalHits)
	assert.InDelta(t, 1.6, f.Accuracy, 1e-9)
	assert.InDelta(t, 1.6, f.AccuracyMean, 1e-9)
}

func TestExtract_EmptyBatchIsNoOp(t *testing.T) {
	t.Parallel()

	result := Extract(testRules(), models.PlayerFeatures{Owner: "acme", PlayerID: "p1"}, nil)

	assert.Empty(t, result.Interesting)
	assert.Equal(t, int64(0), result.Features.AccuracySampleCount)
}

func TestRiskScore_ClampedToBounds(t *testing.T) {
	t.Parallel()

	rules := testRules()

	t.Run("zero when below both thresholds", func(t *testing.T) {
		t.Parallel()
		f := models.PlayerFeatures{Accuracy: 0.1, HeadshotRatio: 0.1}
		assert.Equal(t, 0.0, RiskScore(rules, f))
	})

	t.Run("clamped at 100 when far above both thresholds", func(t *testing.T) {
		t.Parallel()
		f := models.PlayerFeatures{Accuracy: 1.0, HeadshotRatio: 1.0}
		assert.Equal(t, 100.0, RiskScore(rules, f))
	})

	t.Run("proportional between bounds", func(t *testing.T) {
		t.Parallel()
		f := models.PlayerFeatures{Accuracy: 0.6, HeadshotRatio: 0.1}
		assert.InDelta(t, 10.0, RiskScore(rules, f), 1e-9)
	})
}
