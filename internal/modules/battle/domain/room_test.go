package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoom(t *testing.T) {
	room := NewRoom("abc123", "alice")

	assert.Equal(t, "abc123", room.RoomID)
	assert.Equal(t, []string{"alice"}, room.Players)
	assert.Equal(t, PhaseWaiting, room.Phase)
	assert.False(t, room.Ready["alice"])
	assert.Equal(t, int64(0), room.Scores["alice"])
	assert.True(t, room.StartTime.IsZero())
	assert.True(t, room.EndTime.IsZero())
}

func TestJoin(t *testing.T) {
	room := NewRoom("abc123", "alice")

	require.NoError(t, room.Join("bob"))
	assert.True(t, room.IsFull())
	assert.True(t, room.HasPlayer("bob"))
	assert.Equal(t, int64(0), room.Scores["bob"])

	// Same player twice
	assert.ErrorIs(t, room.Join("bob"), ErrAlreadyJoined)

	// Third seat does not exist
	assert.ErrorIs(t, room.Join("carol"), ErrRoomFull)
	assert.Equal(t, []string{"alice", "bob"}, room.Players)
}

func TestSetReadyActivation(t *testing.T) {
	room := NewRoom("abc123", "alice")
	require.NoError(t, room.Join("bob"))

	now := time.Now()
	duration := 15 * time.Second

	activated, err := room.SetReady("alice", 2, now, duration)
	require.NoError(t, err)
	assert.False(t, activated)
	assert.Equal(t, PhaseReady, room.Phase)
	assert.True(t, room.EndTime.IsZero())

	activated, err = room.SetReady("bob", 3, now, duration)
	require.NoError(t, err)
	assert.True(t, activated)
	assert.Equal(t, PhaseActive, room.Phase)
	assert.Equal(t, now, room.StartTime)
	assert.Equal(t, now.Add(duration), room.EndTime)
	assert.Equal(t, int64(2), room.Wagers["alice"])
	assert.Equal(t, int64(3), room.Wagers["bob"])
}

func TestSetReadySoloNeverActivates(t *testing.T) {
	room := NewRoom("abc123", "alice")

	activated, err := room.SetReady("alice", 1, time.Now(), 15*time.Second)
	require.NoError(t, err)
	assert.False(t, activated)
	assert.Equal(t, PhaseReady, room.Phase)
}

func TestSetReadyGuards(t *testing.T) {
	room := NewRoom("abc123", "alice")
	require.NoError(t, room.Join("bob"))

	_, err := room.SetReady("carol", 1, time.Now(), 15*time.Second)
	assert.ErrorIs(t, err, ErrPlayerNotInRoom)

	room.Phase = PhaseEnded
	_, err = room.SetReady("alice", 1, time.Now(), 15*time.Second)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestCanClick(t *testing.T) {
	room := NewRoom("abc123", "alice")
	require.NoError(t, room.Join("bob"))

	now := time.Now()
	assert.ErrorIs(t, room.CanClick("alice", now), ErrNotActive)

	_, err := room.SetReady("alice", 1, now, 15*time.Second)
	require.NoError(t, err)
	_, err = room.SetReady("bob", 1, now, 15*time.Second)
	require.NoError(t, err)

	assert.NoError(t, room.CanClick("alice", now))
	assert.NoError(t, room.CanClick("alice", room.EndTime)) // boundary is inclusive
	assert.ErrorIs(t, room.CanClick("alice", room.EndTime.Add(time.Millisecond)), ErrBattleOver)
	assert.ErrorIs(t, room.CanClick("carol", now), ErrPlayerNotInRoom)
}

func TestWinner(t *testing.T) {
	room := NewRoom("abc123", "alice")

	// Half-empty room has no winner
	_, ok := room.Winner()
	assert.False(t, ok)

	require.NoError(t, room.Join("bob"))

	room.Scores["alice"] = 5
	room.Scores["bob"] = 3
	winner, ok := room.Winner()
	assert.True(t, ok)
	assert.Equal(t, "alice", winner)

	room.Scores["bob"] = 7
	winner, ok = room.Winner()
	assert.True(t, ok)
	assert.Equal(t, "bob", winner)

	room.Scores["alice"] = 7
	_, ok = room.Winner()
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	room := NewRoom("abc123", "alice")
	require.NoError(t, room.Join("bob"))

	cp := room.Clone()
	cp.Scores["alice"] = 99
	cp.Players[0] = "mallory"

	assert.Equal(t, int64(0), room.Scores["alice"])
	assert.Equal(t, "alice", room.Players[0])
}

func TestGenerateRoomID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRoomID(6)
		assert.Len(t, id, 6)
		for _, c := range id {
			assert.True(t, strings.ContainsRune(roomIDAlphabet, c), "unexpected character %q", c)
		}
		seen[id] = true
	}
	// 100 draws from 36^6 should not collide
	assert.Greater(t, len(seen), 95)
}
