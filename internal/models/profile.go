package models

// PlayerStatus is the lifecycle/triage state of a player profile.
type PlayerStatus string

// StatusMonitor is the default status assigned to newly seen players.
const StatusMonitor PlayerStatus = "MONITOR"

// PlayerProfile is the per-player summary record, sk = "PROFILE".
type PlayerProfile struct {
	Owner      string       `json:"owner"`
	PlayerID   string       `json:"playerId"`
	FirstSeen  int64        `json:"firstSeen"`
	LastSeen   int64        `json:"lastSeen"`
	EventCount int64        `json:"eventCount"`
	RiskScore  float64      `json:"riskScore"`
	Status     PlayerStatus `json:"status"`
}

// Key returns the composite key for the profile record.
func (p PlayerProfile) Key() (pk, sk string) {
	return PlayerKey(p.Owner, p.PlayerID), "PROFILE"
}
