package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/models"
)

func testRules() config.RulesConfig {
	return config.RulesConfig{
		ZScoreThreshold:        3.0,
		MinSamplesForDetection: 100,
		EventTTLDays:           90,
	}
}

// accuracy=0.9, mean=0.5, stddev=0.1, sampleCount=150 -> |z|=4.0 > 3.0,
// score=4.0.
func TestEngine_ZScoreAccuracyFires(t *testing.T) {
	t.Parallel()

	f := models.PlayerFeatures{
		Accuracy:            0.9,
		AccuracyMean:        0.5,
		AccuracyStdDev:      0.1,
		AccuracySampleCount: 150,
	}

	dets := NewEngine().Run(testRules(), "acme", "p1", f, 1_000_000)

	require.Len(t, dets, 1)
	d := dets[0]
	assert.Equal(t, models.DetectorZScoreAccuracy, d.DetectorType)
	assert.InDelta(t, 4.0, d.Score, 1e-9)
	assert.Equal(t, "acme", d.Owner)
	assert.Equal(t, "p1", d.PlayerID)
	assert.Equal(t, models.DetectionStatusOpen, d.Status)
	assert.NotEmpty(t, d.DetectionID)
}

// A headshot ratio above 0.5 fires the threshold rule independent of
// z-score state.
func TestEngine_ThresholdHeadshotFires(t *testing.T) {
	t.Parallel()

	f := models.PlayerFeatures{
		HeadshotRatio:       0.6,
		AccuracySampleCount: 150,
	}

	dets := NewEngine().Run(testRules(), "acme", "p1", f, 1_000_000)

	require.Len(t, dets, 1)
	assert.Equal(t, models.DetectorThresholdHeadshot, dets[0].DetectorType)
	assert.InDelta(t, 60.0, dets[0].Score, 1e-9)
}

// A headshot ratio of exactly 0.5 is the boundary, not the trigger — the
// rule requires strictly greater than 0.5 and must not fire here.
func TestEngine_ThresholdHeadshotExactBoundaryDoesNotFire(t *testing.T) {
	t.Parallel()

	f := models.PlayerFeatures{
		HeadshotRatio:       0.5,
		AccuracySampleCount: 150,
	}

	dets := NewEngine().Run(testRules(), "acme", "p1", f, 1_000_000)
	assert.Empty(t, dets)
}

func TestEngine_BothRulesCanFireIndependently(t *testing.T) {
	t.Parallel()

	f := models.PlayerFeatures{
		Accuracy:            0.9,
		AccuracyMean:        0.5,
		AccuracyStdDev:      0.1,
		HeadshotRatio:       0.6,
		AccuracySampleCount: 150,
	}

	dets := NewEngine().Run(testRules(), "acme", "p1", f, 1_000_000)
	require.Len(t, dets, 2)
}

func TestEngine_SkipsBelowMinSamples(t *testing.T) {
	t.Parallel()

	f := models.PlayerFeatures{
		Accuracy:            0.9,
		AccuracyMean:        0.5,
		AccuracyStdDev:      0.1,
		HeadshotRatio:       0.9,
		AccuracySampleCount: 99, // one below the 100 floor
	}

	dets := NewEngine().Run(testRules(), "acme", "p1", f, 1_000_000)
	assert.Empty(t, dets)
}

func TestEngine_ZScoreRequiresStdDevFloor(t *testing.T) {
	t.Parallel()

	f := models.PlayerFeatures{
		Accuracy:            0.9,
		AccuracyMean:        0.1,
		AccuracyStdDev:      0.005, // at/below the 0.01 floor
		AccuracySampleCount: 150,
	}

	dets := NewEngine().Run(testRules(), "acme", "p1", f, 1_000_000)
	assert.Empty(t, dets)
}

func TestEngine_NoFireWhenWithinThreshold(t *testing.T) {
	t.Parallel()

	f := models.PlayerFeatures{
		Accuracy:            0.52,
		AccuracyMean:        0.5,
		AccuracyStdDev:      0.1,
		HeadshotRatio:       0.4,
		AccuracySampleCount: 150,
	}

	dets := NewEngine().Run(testRules(), "acme", "p1", f, 1_000_000)
	assert.Empty(t, dets)
}
