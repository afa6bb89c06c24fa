package store

import (
	"github.com/goccy/go-json"

	"github.com/riftwatch/sentrytel/internal/models"
)

// The wire* types mirror their models.* counterparts but render every float
// field as an exact-decimal string. Conversion to/from
// these types is the only place binary float <-> decimal-string coercion
// happens; everything upstream of the store package works in float64.

type wireEvent struct {
	EventID    string `json:"eventId"`
	Owner      string `json:"owner"`
	PlayerID   string `json:"playerId"`
	ActionType string `json:"actionType"`
	Timestamp  int64  `json:"timestamp"`
	SessionID  string `json:"sessionId,omitempty"`
	Metadata   string `json:"metadata"` // JSON-encoded string
	TTL        int64  `json:"ttl"`
}

func toWireEvent(e models.EventRecord) (wireEvent, error) {
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return wireEvent{}, err
	}
	return wireEvent{
		EventID:    e.EventID,
		Owner:      e.Owner,
		PlayerID:   e.PlayerID,
		ActionType: string(e.ActionType),
		Timestamp:  e.Timestamp,
		SessionID:  e.SessionID,
		Metadata:   string(meta),
		TTL:        e.TTL,
	}, nil
}

func fromWireEvent(w wireEvent) (models.EventRecord, error) {
	var meta models.Metadata
	if w.Metadata != "" {
		if err := json.Unmarshal([]byte(w.Metadata), &meta); err != nil {
			meta = models.Metadata{}
		}
	}
	return models.EventRecord{
		EventID:    w.EventID,
		Owner:      w.Owner,
		PlayerID:   w.PlayerID,
		ActionType: models.ActionType(w.ActionType),
		Timestamp:  w.Timestamp,
		SessionID:  w.SessionID,
		Metadata:   meta,
		TTL:        w.TTL,
	}, nil
}

type wireProfile struct {
	Owner      string `json:"owner"`
	PlayerID   string `json:"playerId"`
	FirstSeen  int64  `json:"firstSeen"`
	LastSeen   int64  `json:"lastSeen"`
	EventCount int64  `json:"eventCount"`
	RiskScore  string `json:"riskScore"`
	Status     string `json:"status"`
}

func toWireProfile(p models.PlayerProfile) wireProfile {
	return wireProfile{
		Owner:      p.Owner,
		PlayerID:   p.PlayerID,
		FirstSeen:  p.FirstSeen,
		LastSeen:   p.LastSeen,
		EventCount: p.EventCount,
		RiskScore:  encodeFloat(p.RiskScore),
		Status:     string(p.Status),
	}
}

func fromWireProfile(w wireProfile) models.PlayerProfile {
	return models.PlayerProfile{
		Owner:      w.Owner,
		PlayerID:   w.PlayerID,
		FirstSeen:  w.FirstSeen,
		LastSeen:   w.LastSeen,
		EventCount: w.EventCount,
		RiskScore:  decodeFloat(w.RiskScore),
		Status:     models.PlayerStatus(w.Status),
	}
}

type wireFeatures struct {
	Owner    string `json:"owner"`
	PlayerID string `json:"playerId"`

	TotalShots     int64 `json:"totalShots"`
	TotalHits      int64 `json:"totalHits"`
	TotalHeadshots int64 `json:"totalHeadshots"`
	TotalKills     int64 `json:"totalKills"`

	Accuracy      string `json:"accuracy"`
	HeadshotRatio string `json:"headshotRatio"`

	AccuracySampleCount int64  `json:"accuracySampleCount"`
	AccuracyMean        string `json:"accuracyMean"`
	AccuracyM2          string `json:"accuracyM2"`
	AccuracyStdDev      string `json:"accuracyStdDev"`

	UpdatedAt int64 `json:"updatedAt"`
}

func toWireFeatures(f models.PlayerFeatures) wireFeatures {
	return wireFeatures{
		Owner:               f.Owner,
		PlayerID:            f.PlayerID,
		TotalShots:          f.TotalShots,
		TotalHits:           f.TotalHits,
		TotalHeadshots:      f.TotalHeadshots,
		TotalKills:          f.TotalKills,
		Accuracy:            encodeFloat(f.Accuracy),
		HeadshotRatio:       encodeFloat(f.HeadshotRatio),
		AccuracySampleCount: f.AccuracySampleCount,
		AccuracyMean:        encodeFloat(f.AccuracyMean),
		AccuracyM2:          encodeFloat(f.AccuracyM2),
		AccuracyStdDev:      encodeFloat(f.AccuracyStdDev),
		UpdatedAt:           f.UpdatedAt,
	}
}

func fromWireFeatures(w wireFeatures) models.PlayerFeatures {
	return models.PlayerFeatures{
		Owner:               w.Owner,
		PlayerID:            w.PlayerID,
		TotalShots:          w.TotalShots,
		TotalHits:           w.TotalHits,
		TotalHeadshots:      w.TotalHeadshots,
		TotalKills:          w.TotalKills,
		Accuracy:            decodeFloat(w.Accuracy),
		HeadshotRatio:       decodeFloat(w.HeadshotRatio),
		AccuracySampleCount: w.AccuracySampleCount,
		AccuracyMean:        decodeFloat(w.AccuracyMean),
		AccuracyM2:          decodeFloat(w.AccuracyM2),
		AccuracyStdDev:      decodeFloat(w.AccuracyStdDev),
		UpdatedAt:           w.UpdatedAt,
	}
}

type wireDetection struct {
	Owner        string `json:"owner"`
	PlayerID     string `json:"playerId"`
	DetectionID  string `json:"detectionId"`
	DetectorType string `json:"detectorType"`
	Score        string `json:"score"`
	Threshold    string `json:"threshold"`
	Features     string `json:"features"` // JSON-encoded string
	Explanation  string `json:"explanation"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"createdAt"`
	TTL          int64  `json:"ttl"`
}

func toWireDetection(d models.DetectionRecord) (wireDetection, error) {
	features, err := json.Marshal(d.Features)
	if err != nil {
		return wireDetection{}, err
	}
	return wireDetection{
		Owner:        d.Owner,
		PlayerID:     d.PlayerID,
		DetectionID:  d.DetectionID,
		DetectorType: string(d.DetectorType),
		Score:        encodeFloat(d.Score),
		Threshold:    encodeFloat(d.Threshold),
		Features:     string(features),
		Explanation:  d.Explanation,
		Status:       string(d.Status),
		CreatedAt:    d.CreatedAt,
		TTL:          d.TTL,
	}, nil
}

func fromWireDetection(w wireDetection) (models.DetectionRecord, error) {
	var features map[string]any
	if w.Features != "" {
		if err := json.Unmarshal([]byte(w.Features), &features); err != nil {
			features = map[string]any{}
		}
	}
	return models.DetectionRecord{
		Owner:        w.Owner,
		PlayerID:     w.PlayerID,
		DetectionID:  w.DetectionID,
		DetectorType: models.DetectorType(w.DetectorType),
		Score:        decodeFloat(w.Score),
		Threshold:    decodeFloat(w.Threshold),
		Features:     features,
		Explanation:  w.Explanation,
		Status:       models.DetectionStatus(w.Status),
		CreatedAt:    w.CreatedAt,
		TTL:          w.TTL,
	}, nil
}
