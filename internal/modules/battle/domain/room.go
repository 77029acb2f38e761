// Package domain holds the battle room entity and its state machine.
package domain

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Phase is the room's position in its lifecycle. Transitions are monotonic:
// waiting -> ready -> active -> ended. Ended is terminal.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseReady   Phase = "ready"
	PhaseActive  Phase = "active"
	PhaseEnded   Phase = "ended"
)

// MaxPlayers is the room capacity
const MaxPlayers = 2

// Room represents a two-player click battle session. The Ready, Scores and
// Wagers maps always have exactly the players in Players as their domain.
type Room struct {
	RoomID    string           `json:"room_id"`
	Players   []string         `json:"players"` // insertion order = join order
	Ready     map[string]bool  `json:"ready"`
	Scores    map[string]int64 `json:"scores"`
	Wagers    map[string]int64 `json:"wagers"`
	Phase     Phase            `json:"phase"`
	StartTime time.Time        `json:"start_time"` // zero until activation
	EndTime   time.Time        `json:"end_time"`   // set once, never mutated
	CreatedAt time.Time        `json:"created_at"`

	// Version supports optimistic concurrency in the room store. Bumped on
	// every successful write.
	Version int64 `json:"version"`
}

// NewRoom creates a waiting room containing only the creator.
func NewRoom(roomID, player string) *Room {
	return &Room{
		RoomID:    roomID,
		Players:   []string{player},
		Ready:     map[string]bool{player: false},
		Scores:    map[string]int64{player: 0},
		Wagers:    map[string]int64{player: 0},
		Phase:     PhaseWaiting,
		CreatedAt: time.Now(),
	}
}

// HasPlayer reports whether the player has joined this room
func (r *Room) HasPlayer(player string) bool {
	for _, p := range r.Players {
		if p == player {
			return true
		}
	}
	return false
}

// IsFull reports whether the room has reached capacity
func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayers
}

// Join appends a second player with zeroed readiness, score and wager.
func (r *Room) Join(player string) error {
	if r.HasPlayer(player) {
		return ErrAlreadyJoined
	}
	if r.IsFull() {
		return ErrRoomFull
	}
	r.Players = append(r.Players, player)
	r.Ready[player] = false
	r.Scores[player] = 0
	r.Wagers[player] = 0
	return nil
}

// SetReady marks the player ready with their stake. When every seat is
// filled and ready the room activates: startTime=now, endTime=now+duration.
// Returns whether this call activated the room.
func (r *Room) SetReady(player string, wager int64, now time.Time, duration time.Duration) (bool, error) {
	if !r.HasPlayer(player) {
		return false, ErrPlayerNotInRoom
	}
	if r.Phase != PhaseWaiting && r.Phase != PhaseReady {
		return false, ErrNotActive
	}

	r.Ready[player] = true
	r.Wagers[player] = wager
	r.Phase = PhaseReady

	if r.allReady() {
		r.Phase = PhaseActive
		r.StartTime = now
		r.EndTime = now.Add(duration)
		return true, nil
	}
	return false, nil
}

func (r *Room) allReady() bool {
	if len(r.Players) < MaxPlayers {
		return false
	}
	for _, p := range r.Players {
		if !r.Ready[p] {
			return false
		}
	}
	return true
}

// CanClick checks the click guard: active phase and inside the window.
func (r *Room) CanClick(player string, now time.Time) error {
	if !r.HasPlayer(player) {
		return ErrPlayerNotInRoom
	}
	if r.Phase != PhaseActive {
		return ErrNotActive
	}
	if now.After(r.EndTime) {
		return ErrBattleOver
	}
	return nil
}

// Winner returns the player with the strictly higher score, or ok=false on
// a tie. Only meaningful once the room has ended.
func (r *Room) Winner() (winner string, ok bool) {
	if len(r.Players) < MaxPlayers {
		return "", false
	}
	p1, p2 := r.Players[0], r.Players[1]
	s1, s2 := r.Scores[p1], r.Scores[p2]
	switch {
	case s1 > s2:
		return p1, true
	case s2 > s1:
		return p2, true
	default:
		return "", false
	}
}

// Clone returns a deep copy so stored rooms never leak shared maps.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Players = append([]string(nil), r.Players...)
	cp.Ready = make(map[string]bool, len(r.Ready))
	for k, v := range r.Ready {
		cp.Ready[k] = v
	}
	cp.Scores = make(map[string]int64, len(r.Scores))
	for k, v := range r.Scores {
		cp.Scores[k] = v
	}
	cp.Wagers = make(map[string]int64, len(r.Wagers))
	for k, v := range r.Wagers {
		cp.Wagers[k] = v
	}
	return &cp
}

const roomIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateRoomID returns an opaque lowercase base36 room code.
func GenerateRoomID(length int) string {
	if length <= 0 {
		length = 6
	}
	id := make([]byte, length)
	max := big.NewInt(int64(len(roomIDAlphabet)))
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		id[i] = roomIDAlphabet[n.Int64()]
	}
	return string(id)
}
