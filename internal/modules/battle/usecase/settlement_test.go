package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/domain"
)

func endedRoom(t *testing.T, wagerA, wagerB, scoreA, scoreB int64) *domain.Room {
	t.Helper()
	room := domain.NewRoom("abc123", "alice")
	require.NoError(t, room.Join("bob"))
	room.Wagers["alice"] = wagerA
	room.Wagers["bob"] = wagerB
	room.Scores["alice"] = scoreA
	room.Scores["bob"] = scoreB
	room.Phase = domain.PhaseEnded
	room.StartTime = time.Now().Add(-16 * time.Second)
	room.EndTime = time.Now().Add(-time.Second)
	return room
}

func TestDecideOutcomeWin(t *testing.T) {
	room := endedRoom(t, 2, 3, 5, 3)

	out := DecideOutcome(room, 10)

	assert.False(t, out.Tie)
	assert.Equal(t, "alice", out.Winner)
	assert.Equal(t, "bob", out.Loser)
	assert.Equal(t, int64(50), out.Pool) // (2+3)*10
	assert.Nil(t, out.Refunds)
	assert.Equal(t, int64(5), out.Scores["alice"])
	assert.Equal(t, int64(3), out.Wagers["bob"])
}

func TestDecideOutcomeTie(t *testing.T) {
	room := endedRoom(t, 2, 3, 4, 4)

	out := DecideOutcome(room, 10)

	assert.True(t, out.Tie)
	assert.Empty(t, out.Winner)
	assert.Zero(t, out.Pool)
	assert.Equal(t, int64(20), out.Refunds["alice"])
	assert.Equal(t, int64(30), out.Refunds["bob"])
}

func TestDecideOutcomeZeroWagers(t *testing.T) {
	room := endedRoom(t, 0, 0, 1, 0)

	out := DecideOutcome(room, 10)

	assert.Equal(t, "alice", out.Winner)
	assert.Zero(t, out.Pool)
}

func TestDecideOutcomeIsDeterministic(t *testing.T) {
	room := endedRoom(t, 1, 4, 9, 2)

	first := DecideOutcome(room, 10)
	second := DecideOutcome(room, 10)

	assert.Equal(t, first, second)
}
