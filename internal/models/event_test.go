package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventRecord_Key(t *testing.T) {
	t.Parallel()

	ev := EventRecord{Owner: "acme", PlayerID: "p1", Timestamp: 1700000000, EventID: "abc"}
	pk, sk := ev.Key()

	assert.Equal(t, "acme#p1", pk)
	assert.Equal(t, "1700000000#abc", sk)
}

func TestPlayerKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "acme#p1", PlayerKey("acme", "p1"))
}

func TestActionType_IsAlwaysStore(t *testing.T) {
	t.Parallel()

	alwaysStoreTypes := []ActionType{
		ActionSessionStart, ActionSessionEnd, ActionPlayerKilled,
		ActionPlayerReported, ActionPlayerViolation,
	}
	for _, at := range alwaysStoreTypes {
		assert.True(t, at.IsAlwaysStore(), "%s should be always-store", at)
	}

	notAlwaysStore := []ActionType{
		ActionWeaponFired, ActionPlayerAttack, ActionPlayerTick,
		ActionPlayerInput, ActionItemLooted, ActionType("UNKNOWN_TYPE"),
	}
	for _, at := range notAlwaysStore {
		assert.False(t, at.IsAlwaysStore(), "%s should not be always-store", at)
	}
}
