package domain

import (
	"context"
	"time"
)

// RoomRepository is the keyed room store. Implementations must serialize
// writes per room: Update is a compare-and-swap on Room.Version, and
// IncrementScore/EndRoom run their guards atomically with the mutation so
// interleaved requests from both players never lose updates.
type RoomRepository interface {
	// Create stores a new room. ErrRoomExists on ID collision.
	Create(ctx context.Context, room *Room) error

	// Get returns a copy of the room. ErrRoomNotFound if absent.
	Get(ctx context.Context, roomID string) (*Room, error)

	// Update writes the room iff the stored version still equals
	// room.Version, then bumps the version. ErrVersionConflict otherwise.
	Update(ctx context.Context, room *Room) error

	// IncrementScore atomically bumps the player's click count iff the room
	// is active and now is within the window. Returns the new score.
	IncrementScore(ctx context.Context, roomID, player string, now time.Time) (int64, error)

	// EndRoom flips the room from active to ended. Exactly one concurrent
	// caller observes won=true; later callers get the frozen room with
	// won=false. ErrNotActive if the room never activated.
	EndRoom(ctx context.Context, roomID string) (room *Room, won bool, err error)
}
