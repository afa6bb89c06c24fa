package models

import "math"

// PlayerFeatures is the per-player statistics record, sk = "FEATURES"
//. AccuracyMean/AccuracyM2/AccuracySampleCount are the Welford
// online-moments state; AccuracyStdDev is derived from them.
type PlayerFeatures struct {
	Owner    string `json:"owner"`
	PlayerID string `json:"playerId"`

	TotalShots     int64 `json:"totalShots"`
	TotalHits      int64 `json:"totalHits"`
	TotalHeadshots int64 `json:"totalHeadshots"`
	TotalKills     int64 `json:"totalKills"`

	Accuracy      float64 `json:"accuracy"`
	HeadshotRatio float64 `json:"headshotRatio"`

	AccuracySampleCount int64   `json:"accuracySampleCount"`
	AccuracyMean        float64 `json:"accuracyMean"`
	AccuracyM2          float64 `json:"accuracyM2"`
	AccuracyStdDev      float64 `json:"accuracyStdDev"`

	UpdatedAt int64 `json:"updatedAt"`
}

// Key returns the composite key for the features record.
func (f PlayerFeatures) Key() (pk, sk string) {
	return PlayerKey(f.Owner, f.PlayerID), "FEATURES"
}

// RecomputeDerived recomputes Accuracy, HeadshotRatio and AccuracyStdDev
// from the monotonic counters and Welford moments. Division by zero never
// occurs: both branches have an explicit zero-denominator guard.
func (f *PlayerFeatures) RecomputeDerived() {
	if f.TotalShots > 0 {
		f.Accuracy = float64(f.TotalHits) / float64(f.TotalShots)
		hits := f.TotalHits
		if hits < 1 {
			hits = 1
		}
		f.HeadshotRatio = float64(f.TotalHeadshots) / float64(hits)
	} else {
		f.Accuracy = 0
		f.HeadshotRatio = 0
	}

	if f.AccuracySampleCount > 1 {
		f.AccuracyStdDev = math.Sqrt(f.AccuracyM2 / float64(f.AccuracySampleCount))
	} else {
		f.AccuracyStdDev = 0
	}
}
