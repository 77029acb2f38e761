package domain

import "errors"

// Domain errors surfaced to callers as typed failures. Every rejected
// operation leaves the room record untouched.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrAlreadyJoined     = errors.New("player already in room")
	ErrPlayerNotInRoom   = errors.New("player not in room")
	ErrInsufficientFunds = errors.New("not enough cookies to bet that amount")
	ErrNotActive         = errors.New("room is not in an active battle")
	ErrBattleOver        = errors.New("battle window has ended")
	ErrBattleRunning     = errors.New("battle is still running")

	// ErrVersionConflict means a concurrent writer updated the room between
	// read and write. Callers reload and reapply.
	ErrVersionConflict = errors.New("room version conflict")

	ErrRoomExists = errors.New("room id already exists")
)
