// Package usecase implements the player ledger business logic.
package usecase

import (
	"context"
	"fmt"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/domain"
	"github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/repository"
	"github.com/Srekanthnamilakonda/Pookie/pkg/logger"
)

// LedgerUseCase implements domain.Service over the gorm repository
type LedgerUseCase struct {
	players *repository.PlayerRepository
}

// NewLedgerUseCase creates a new ledger use case
func NewLedgerUseCase(players *repository.PlayerRepository) *LedgerUseCase {
	return &LedgerUseCase{players: players}
}

// GetBalance returns the player's spendable cookie balance
func (uc *LedgerUseCase) GetBalance(ctx context.Context, player string) (int64, error) {
	p, err := uc.players.GetByUsername(ctx, player)
	if err != nil {
		return 0, err
	}
	return p.Cookies, nil
}

// Reserve debits the stake from the player's balance
func (uc *LedgerUseCase) Reserve(ctx context.Context, player string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative reserve amount %d", amount)
	}
	if err := uc.players.Debit(ctx, player, amount); err != nil {
		return err
	}

	logger.Debug(ctx).
		Str("player", player).
		Int64("amount", amount).
		Msg("Cookies reserved")
	return nil
}

// Credit adds cookies to the player's balance
func (uc *LedgerUseCase) Credit(ctx context.Context, player string, amount int64, reason string) error {
	if amount < 0 {
		return fmt.Errorf("negative credit amount %d", amount)
	}
	if err := uc.players.Credit(ctx, player, amount); err != nil {
		return err
	}

	logger.Debug(ctx).
		Str("player", player).
		Int64("amount", amount).
		Str("reason", reason).
		Msg("Cookies credited")
	return nil
}

// RecordMatch appends a match-history entry and bumps the matching counter
func (uc *LedgerUseCase) RecordMatch(ctx context.Context, player, opponent string, result domain.MatchResult) error {
	switch result {
	case domain.ResultWin:
		if err := uc.players.IncrementWins(ctx, player); err != nil {
			return err
		}
	case domain.ResultLoss:
		if err := uc.players.IncrementLosses(ctx, player); err != nil {
			return err
		}
	case domain.ResultTie:
		// history entry only
	default:
		return fmt.Errorf("unknown match result %q", result)
	}

	record := domain.NewMatchRecord(player, opponent, result)
	if err := uc.players.CreateMatchRecord(ctx, record); err != nil {
		return err
	}

	logger.Info(ctx).
		Str("player", player).
		Str("opponent", opponent).
		Str("result", string(result)).
		Msg("Match recorded")
	return nil
}
