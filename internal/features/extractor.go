// Package features implements the feature-extraction and profile-update
// engine: it merges a batch of events for one player into that player's
// persistent PlayerFeatures record using Welford's online algorithm, and
// classifies which events in the batch are worth persisting.
package features

import (
	"fmt"

	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/models"
)

// InterestingEvent pairs a source event with the reason it was retained.
type InterestingEvent struct {
	Event  models.EventRecord
	Reason string
}

// Result is the output of Extract: the updated features record and the
// subset of the input batch worth persisting.
type Result struct {
	Features    models.PlayerFeatures
	Interesting []InterestingEvent
}

// batchTotals accumulates this-batch-only counters before they are merged
// into the prior totals.
type batchTotals struct {
	shotsFired int64
	shotsHit   int64
	headshots  int64
	kills      int64
}

// Extract processes one player's event batch against their prior features
// record (the zero value if this is a new player) and returns the updated
// record plus the events worth persisting. Events are processed in the
// order given; order is not required to be timestamp-sorted.
func Extract(rules config.RulesConfig, prior models.PlayerFeatures, events []models.EventRecord) Result {
	var totals batchTotals
	interesting := make([]InterestingEvent, 0, len(events))

	for _, ev := range events {
		switch {
		case ev.ActionType.IsAlwaysStore():
			interesting = append(interesting, InterestingEvent{Event: ev})
			if ev.ActionType == models.ActionPlayerKilled {
				totals.kills++
			}

		case ev.ActionType == models.ActionWeaponFired:
			shots := ev.Metadata.Int("shots", 1)
			hits := ev.Metadata.Int("hits", 0)
			headshots := ev.Metadata.Int("headshots", 0)

			totals.shotsFired += shots
			totals.shotsHit += hits
			totals.headshots += headshots

			if shots >= int64(rules.MinShotsForInteresting) {
				accuracy := safeDiv(float64(hits), float64(shots))
				hsRatio := float64(headshots) / maxInt64(hits, 1)

				switch {
				case accuracy >= rules.AccuracyInterestingThreshold:
					interesting = append(interesting, InterestingEvent{
						Event:  ev,
						Reason: fmt.Sprintf("high_accuracy:%.2f", accuracy),
					})
				case hsRatio >= rules.HeadshotInterestingThreshold:
					interesting = append(interesting, InterestingEvent{
						Event:  ev,
						Reason: fmt.Sprintf("high_headshot:%.2f", hsRatio),
					})
				}
			}

		case ev.ActionType == models.ActionPlayerAttack:
			damage := ev.Metadata.Float("damage", 0)
			if damage > rules.HighDamageThreshold {
				interesting = append(interesting, InterestingEvent{
					Event:  ev,
					Reason: fmt.Sprintf("high_damage:%v", damage),
				})
			}

		default:
			// No counters updated, nothing stored.
		}
	}

	updated := mergeTotals(prior, totals)
	applyWelford(&updated, totals)
	updated.RecomputeDerived()

	return Result{Features: updated, Interesting: interesting}
}

// mergeTotals adds this batch's totals onto the prior totals, carrying
// owner/player identity and Welford state forward untouched (Welford is
// applied separately by applyWelford).
func mergeTotals(prior models.PlayerFeatures, t batchTotals) models.PlayerFeatures {
	updated := prior
	updated.TotalShots += t.shotsFired
	updated.TotalHits += t.shotsHit
	updated.TotalHeadshots += t.headshots
	updated.TotalKills += t.kills
	return updated
}

// applyWelford updates the running accuracy mean/variance at most once per
// player per batch, only when this batch fired at least one shot. The session
// accuracy sample is shots_hit/shots_fired for *this batch only* — not the
// cumulative accuracy — so repeated sessions with varying per-session
// accuracy are what the detector's z-score actually measures.
func applyWelford(f *models.PlayerFeatures, t batchTotals) {
	if t.shotsFired == 0 {
		return
	}

	sessionAccuracy := float64(t.shotsHit) / float64(t.shotsFired)

	n := f.AccuracySampleCount + 1
	delta := sessionAccuracy - f.AccuracyMean
	mean := f.AccuracyMean + delta/float64(n)
	delta2 := sessionAccuracy - mean
	m2 := f.AccuracyM2 + delta*delta2

	f.AccuracySampleCount = n
	f.AccuracyMean = mean
	f.AccuracyM2 = m2
}

// RiskScore computes a player's risk contribution from accuracy and
// headshot ratio, clamped to [0, 100].
func RiskScore(rules config.RulesConfig, f models.PlayerFeatures) float64 {
	risk := 0.0
	if f.Accuracy > rules.AccuracyRiskThreshold {
		risk += (f.Accuracy - rules.AccuracyRiskThreshold) * 100
	}
	if f.HeadshotRatio > rules.HeadshotRiskThreshold {
		risk += (f.HeadshotRatio - rules.HeadshotRiskThreshold) * 100
	}
	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}
	return risk
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func maxInt64(a int64, b int64) float64 {
	if a > b {
		return float64(a)
	}
	return float64(b)
}
