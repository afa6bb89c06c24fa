package models

// ActionType enumerates the kinds of telemetry events the pipeline accepts.
// Unknown values are legal and treated as routine (see IsAlwaysStore).
type ActionType string

const (
	ActionSessionStart    ActionType = "SESSION_START"
	ActionSessionEnd      ActionType = "SESSION_END"
	ActionPlayerKilled    ActionType = "PLAYER_KILLED"
	ActionPlayerReported  ActionType = "PLAYER_REPORTED"
	ActionPlayerViolation ActionType = "PLAYER_VIOLATION"
	ActionWeaponFired     ActionType = "WEAPON_FIRED"
	ActionPlayerAttack    ActionType = "PLAYER_ATTACK"
	ActionPlayerTick      ActionType = "PLAYER_TICK"
	ActionPlayerInput     ActionType = "PLAYER_INPUT"
	ActionItemLooted      ActionType = "ITEM_LOOTED"
)

// alwaysStore is the set of action types that are unconditionally retained
// regardless of per-event interestingness scoring.
var alwaysStore = map[ActionType]bool{
	ActionSessionStart:    true,
	ActionSessionEnd:      true,
	ActionPlayerKilled:    true,
	ActionPlayerReported:  true,
	ActionPlayerViolation: true,
}

// IsAlwaysStore reports whether actionType belongs to the always-store set.
func (a ActionType) IsAlwaysStore() bool {
	return alwaysStore[a]
}
