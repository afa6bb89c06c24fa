package models

import "fmt"

// DetectorType enumerates the anomaly rules implemented by internal/detection.
type DetectorType string

const (
	DetectorZScoreAccuracy    DetectorType = "ZSCORE_ACCURACY"
	DetectorThresholdHeadshot DetectorType = "THRESHOLD_HEADSHOT"
)

// DetectionStatus is the lifecycle state of a detection record.
type DetectionStatus string

// DetectionStatusOpen is the default status assigned to new detections.
const DetectionStatusOpen DetectionStatus = "OPEN"

// DetectionRecord is an anomaly finding, sk = "{createdAt}#{detectionId}"
//.
type DetectionRecord struct {
	Owner        string          `json:"owner"`
	PlayerID     string          `json:"playerId"`
	DetectionID  string          `json:"detectionId"`
	DetectorType DetectorType    `json:"detectorType"`
	Score        float64         `json:"score"`
	Threshold    float64         `json:"threshold"`
	Features     map[string]any  `json:"features"`
	Explanation  string          `json:"explanation"`
	Status       DetectionStatus `json:"status"`
	CreatedAt    int64           `json:"createdAt"`
	TTL          int64           `json:"ttl"`
}

// Key returns the composite key for the detection record.
func (d DetectionRecord) Key() (pk, sk string) {
	return PlayerKey(d.Owner, d.PlayerID), fmt.Sprintf("%d#%s", d.CreatedAt, d.DetectionID)
}
