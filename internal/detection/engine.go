// Package detection runs the anomaly-detection rules over a player's
// updated feature vector. The two rules are independent:
// both may fire for the same player within one batch, each producing its
// own DetectionRecord.
package detection

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/models"
)

// Rule evaluates one detector against a player's updated features and
// returns a detection if it fires.
type Rule interface {
	Evaluate(rules config.RulesConfig, f models.PlayerFeatures) (models.DetectionRecord, bool)
}

// Engine runs every registered Rule against a player's features.
type Engine struct {
	rules []Rule
}

// NewEngine returns an Engine with both anomaly rules registered.
func NewEngine() *Engine {
	return &Engine{rules: []Rule{zScoreAccuracyRule{}, thresholdHeadshotRule{}}}
}

// Run evaluates every rule for one player. Returns no detections (and does
// not evaluate any rule) when AccuracySampleCount is below the configured
// floor — both rules require a minimum sample count before they trust the
// statistics enough to fire.
func (e *Engine) Run(rulesCfg config.RulesConfig, owner, playerID string, f models.PlayerFeatures, now int64) []models.DetectionRecord {
	if f.AccuracySampleCount < int64(rulesCfg.MinSamplesForDetection) {
		return nil
	}

	var out []models.DetectionRecord
	for _, r := range e.rules {
		det, fired := r.Evaluate(rulesCfg, f)
		if !fired {
			continue
		}
		det.Owner = owner
		det.PlayerID = playerID
		det.DetectionID = uuid.NewString()
		det.Status = models.DetectionStatusOpen
		det.CreatedAt = now
		det.TTL = now/1000 + int64(rulesCfg.EventTTLDays)*86400
		out = append(out, det)
	}
	return out
}

// zScoreAccuracyRule flags accuracy that deviates too far from a player's
// own historical mean.
type zScoreAccuracyRule struct{}

func (zScoreAccuracyRule) Evaluate(rulesCfg config.RulesConfig, f models.PlayerFeatures) (models.DetectionRecord, bool) {
	if f.AccuracyStdDev <= 0.01 {
		return models.DetectionRecord{}, false
	}

	z := (f.Accuracy - f.AccuracyMean) / f.AccuracyStdDev
	if math.Abs(z) <= rulesCfg.ZScoreThreshold {
		return models.DetectionRecord{}, false
	}

	return models.DetectionRecord{
		DetectorType: models.DetectorZScoreAccuracy,
		Score:        math.Abs(z),
		Threshold:    rulesCfg.ZScoreThreshold,
		Features: map[string]any{
			"accuracy": f.Accuracy,
			"mean":     f.AccuracyMean,
			"stdDev":   f.AccuracyStdDev,
			"zScore":   z,
		},
		Explanation: fmt.Sprintf("Accuracy z-score %.2f exceeds threshold %.1f", z, rulesCfg.ZScoreThreshold),
	}, true
}

// thresholdHeadshotRule flags a headshot ratio above a fixed threshold. It
// is gated by the same AccuracySampleCount precondition as Rule 1 because
// Engine.Run checks it once before invoking any rule, not independently
// re-gated here.
type thresholdHeadshotRule struct{}

const headshotScoreThreshold = 50.0

func (thresholdHeadshotRule) Evaluate(_ config.RulesConfig, f models.PlayerFeatures) (models.DetectionRecord, bool) {
	if f.HeadshotRatio <= 0.5 {
		return models.DetectionRecord{}, false
	}

	return models.DetectionRecord{
		DetectorType: models.DetectorThresholdHeadshot,
		Score:        f.HeadshotRatio * 100,
		Threshold:    headshotScoreThreshold,
		Features: map[string]any{
			"headshotRatio":  f.HeadshotRatio,
			"totalHeadshots": f.TotalHeadshots,
			"totalHits":      f.TotalHits,
		},
		Explanation: fmt.Sprintf("Headshot ratio %.1f%% exceeds 50%% threshold", f.HeadshotRatio*100),
	}, true
}
