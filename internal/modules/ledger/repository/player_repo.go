// Package repository persists player ledger data with gorm.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/domain"
)

// PlayerRepository handles player data persistence
type PlayerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByUsername retrieves a player by username
func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	var player domain.Player
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

// Debit atomically subtracts amount from the player's balance. The balance
// check happens in the same statement so concurrent debits cannot overdraw.
func (r *PlayerRepository) Debit(ctx context.Context, username string, amount int64) error {
	res := r.db.WithContext(ctx).Model(&domain.Player{}).
		Where("username = ? AND cookies >= ?", username, amount).
		Update("cookies", gorm.Expr("cookies - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to debit player: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the player is missing or the balance is short
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Player{}).
			Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check player: %w", err)
		}
		if count == 0 {
			return domain.ErrPlayerNotFound
		}
		return domain.ErrInsufficientFunds
	}
	return nil
}

// Credit adds amount to the player's balance
func (r *PlayerRepository) Credit(ctx context.Context, username string, amount int64) error {
	res := r.db.WithContext(ctx).Model(&domain.Player{}).
		Where("username = ?", username).
		Update("cookies", gorm.Expr("cookies + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to credit player: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// IncrementWins bumps the player's win counter
func (r *PlayerRepository) IncrementWins(ctx context.Context, username string) error {
	return r.incrementCounter(ctx, username, "wins")
}

// IncrementLosses bumps the player's loss counter
func (r *PlayerRepository) IncrementLosses(ctx context.Context, username string) error {
	return r.incrementCounter(ctx, username, "losses")
}

func (r *PlayerRepository) incrementCounter(ctx context.Context, username, column string) error {
	res := r.db.WithContext(ctx).Model(&domain.Player{}).
		Where("username = ?", username).
		Update(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// CreateMatchRecord appends one match-history entry
func (r *PlayerRepository) CreateMatchRecord(ctx context.Context, record *domain.MatchRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create match record: %w", err)
	}
	return nil
}
