// Package db persists battle audit records with gorm.
package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/domain"
)

// BattleRecordRepository implements domain.BattleRecordRepository
type BattleRecordRepository struct {
	db *gorm.DB
}

// NewBattleRecordRepository creates a new battle record repository
func NewBattleRecordRepository(db *gorm.DB) *BattleRecordRepository {
	return &BattleRecordRepository{db: db}
}

func (r *BattleRecordRepository) Create(ctx context.Context, record *domain.BattleRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create battle record: %w", err)
	}
	return nil
}

// UpdateResult writes the settlement outcome. Only in-progress rows are
// touched, so a second settlement attempt cannot rewrite the result.
func (r *BattleRecordRepository) UpdateResult(ctx context.Context, roomID, winner string, scoreA, scoreB int64, endedAt *time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.BattleRecord{}).
		Where("room_id = ? AND status = ?", roomID, domain.BattleRecordStatusInProgress).
		Updates(map[string]interface{}{
			"winner":   winner,
			"score_a":  scoreA,
			"score_b":  scoreB,
			"status":   domain.BattleRecordStatusSettled,
			"ended_at": endedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update battle record: %w", err)
	}
	return nil
}
