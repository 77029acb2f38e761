// Package memory provides the in-memory room repository.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/domain"
)

// RoomRepository implements domain.RoomRepository with a mutex-guarded map.
// All guards run under the same lock as their mutation, so interleaved
// requests from both players are serialized per store.
type RoomRepository struct {
	rooms map[string]*domain.Room
	mu    sync.RWMutex
}

// NewRoomRepository creates a new memory room repository
func NewRoomRepository() *RoomRepository {
	return &RoomRepository{
		rooms: make(map[string]*domain.Room),
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.RoomID]; exists {
		return domain.ErrRoomExists
	}
	stored := room.Clone()
	stored.Version = 1
	r.rooms[room.RoomID] = stored
	room.Version = 1
	return nil
}

func (r *RoomRepository) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.rooms[room.RoomID]
	if !exists {
		return domain.ErrRoomNotFound
	}
	if stored.Version != room.Version {
		return domain.ErrVersionConflict
	}

	next := room.Clone()
	next.Version = stored.Version + 1
	r.rooms[room.RoomID] = next
	room.Version = next.Version
	return nil
}

func (r *RoomRepository) IncrementScore(ctx context.Context, roomID, player string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return 0, domain.ErrRoomNotFound
	}
	if err := room.CanClick(player, now); err != nil {
		return 0, err
	}

	room.Scores[player]++
	room.Version++
	return room.Scores[player], nil
}

func (r *RoomRepository) EndRoom(ctx context.Context, roomID string) (*domain.Room, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return nil, false, domain.ErrRoomNotFound
	}

	switch room.Phase {
	case domain.PhaseActive:
		room.Phase = domain.PhaseEnded
		room.Version++
		return room.Clone(), true, nil
	case domain.PhaseEnded:
		return room.Clone(), false, nil
	default:
		return nil, false, domain.ErrNotActive
	}
}
