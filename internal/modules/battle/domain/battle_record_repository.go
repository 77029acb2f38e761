package domain

import (
	"context"
	"time"
)

// BattleRecordRepository defines the interface for battle audit persistence
type BattleRecordRepository interface {
	Create(ctx context.Context, record *BattleRecord) error
	UpdateResult(ctx context.Context, roomID, winner string, scoreA, scoreB int64, endedAt *time.Time) error
}
