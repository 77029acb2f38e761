// Package usecase implements the battle room state machine.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/domain"
	ledgerdomain "github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/domain"
	"github.com/Srekanthnamilakonda/Pookie/pkg/logger"
)

// maxWriteRetries bounds the reload-reapply loop on version conflicts.
// Contention is at most two writers per room, so conflicts resolve fast.
const maxWriteRetries = 5

// BattleUseCase validates and applies every room transition
type BattleUseCase struct {
	rooms   domain.RoomRepository
	ledger  ledgerdomain.Service
	records domain.BattleRecordRepository // optional

	// Gameplay tunables, overridable before serving traffic
	Duration        time.Duration
	CookiesPerWager int64
	RoomIDLength    int

	statusGroup singleflight.Group
}

// NewBattleUseCase creates a new battle use case
func NewBattleUseCase(rooms domain.RoomRepository, ledgerSvc ledgerdomain.Service, records domain.BattleRecordRepository) *BattleUseCase {
	return &BattleUseCase{
		rooms:           rooms,
		ledger:          ledgerSvc,
		records:         records,
		Duration:        15 * time.Second,
		CookiesPerWager: 10,
		RoomIDLength:    6,
	}
}

// SettleResult is the terminal outcome returned to both clients
type SettleResult struct {
	Winner string           `json:"winner"` // empty = tie
	Tie    bool             `json:"tie"`
	Scores map[string]int64 `json:"scores"`
	Wagers map[string]int64 `json:"wagers"`
}

// CreateRoom opens a new waiting room for the player. The wager is only
// checked against the balance here; cookies are reserved at ready-time.
func (uc *BattleUseCase) CreateRoom(ctx context.Context, player string, wager int64) (*domain.Room, error) {
	ctx = logger.WithFields(ctx, map[string]interface{}{"player": player})

	if err := uc.checkFunds(ctx, player, wager); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		room := domain.NewRoom(domain.GenerateRoomID(uc.RoomIDLength), player)
		err := uc.rooms.Create(ctx, room)
		if errors.Is(err, domain.ErrRoomExists) {
			continue
		}
		if err != nil {
			logger.Error(ctx).Err(err).Msg("Failed to store new room")
			return nil, err
		}

		logger.Info(ctx).
			Str("room_id", room.RoomID).
			Int64("wager", wager).
			Msg("Room created")
		return room, nil
	}
	return nil, fmt.Errorf("failed to allocate an unused room id")
}

// JoinRoom seats the second player in an existing room
func (uc *BattleUseCase) JoinRoom(ctx context.Context, roomID, player string, wager int64) error {
	ctx = logger.WithFields(ctx, map[string]interface{}{"room_id": roomID, "player": player})

	if err := uc.checkFunds(ctx, player, wager); err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		room, err := uc.rooms.Get(ctx, roomID)
		if err != nil {
			return err
		}
		if err := room.Join(player); err != nil {
			logger.Warn(ctx).Err(err).Msg("Join rejected")
			return err
		}

		err = uc.rooms.Update(ctx, room)
		if errors.Is(err, domain.ErrVersionConflict) && attempt < maxWriteRetries {
			continue
		}
		if err != nil {
			return err
		}

		logger.Info(ctx).Msg("Player joined room")
		return nil
	}
}

// SetReady marks the player ready, reserving their stake exactly once.
// When the second player readies the room activates and the click window
// opens.
func (uc *BattleUseCase) SetReady(ctx context.Context, roomID, player string, wager int64) (*domain.Room, error) {
	ctx = logger.WithFields(ctx, map[string]interface{}{"room_id": roomID, "player": player})

	if wager < 0 {
		return nil, fmt.Errorf("negative wager %d", wager)
	}

	reserved := false
	for attempt := 0; ; attempt++ {
		room, err := uc.rooms.Get(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if !room.HasPlayer(player) {
			return nil, domain.ErrPlayerNotInRoom
		}
		if room.Ready[player] {
			// Re-ready is a no-op: the stake is already reserved.
			return room, nil
		}

		if !reserved {
			stake := wager * uc.CookiesPerWager
			if err := uc.ledger.Reserve(ctx, player, stake); err != nil {
				logger.Warn(ctx).Err(err).Int64("stake", stake).Msg("Wager reservation failed")
				return nil, mapLedgerErr(err)
			}
			reserved = true
		}

		activated, err := room.SetReady(player, wager, time.Now(), uc.Duration)
		if err != nil {
			return nil, err
		}

		err = uc.rooms.Update(ctx, room)
		if errors.Is(err, domain.ErrVersionConflict) && attempt < maxWriteRetries {
			continue
		}
		if err != nil {
			return nil, err
		}

		if activated {
			uc.recordBattleStart(ctx, room)
			logger.Info(ctx).
				Time("end_time", room.EndTime).
				Msg("Both players ready, battle started")
		} else {
			logger.Info(ctx).Int64("wager", wager).Msg("Player ready")
		}
		return room, nil
	}
}

// RegisterClick counts one click inside the active window
func (uc *BattleUseCase) RegisterClick(ctx context.Context, roomID, player string) (int64, error) {
	score, err := uc.rooms.IncrementScore(ctx, roomID, player, time.Now())
	if err != nil {
		return 0, err
	}

	logger.Debug(ctx).
		Str("room_id", roomID).
		Str("player", player).
		Int64("score", score).
		Msg("Click registered")
	return score, nil
}

// GetStatus returns a read-only snapshot of the room. Both clients poll
// this once a second, so concurrent reads for the same room collapse into
// one store fetch.
func (uc *BattleUseCase) GetStatus(ctx context.Context, roomID string) (*domain.Room, error) {
	v, err, _ := uc.statusGroup.Do(roomID, func() (interface{}, error) {
		return uc.rooms.Get(ctx, roomID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Room), nil
}

// Settle finishes the battle once the window has elapsed. Exactly one
// caller wins the active->ended transition and performs the payout; every
// other call observes the frozen room and gets the identical result back.
func (uc *BattleUseCase) Settle(ctx context.Context, roomID string) (*SettleResult, error) {
	ctx = logger.WithFields(ctx, map[string]interface{}{"room_id": roomID})

	room, err := uc.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	switch room.Phase {
	case domain.PhaseWaiting, domain.PhaseReady:
		return nil, domain.ErrNotActive
	case domain.PhaseActive:
		if time.Now().Before(room.EndTime) {
			return nil, domain.ErrBattleRunning
		}
	}

	frozen, won, err := uc.rooms.EndRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	outcome := DecideOutcome(frozen, uc.CookiesPerWager)
	if won {
		if err := uc.payout(ctx, roomID, outcome); err != nil {
			return nil, err
		}
		uc.recordBattleEnd(ctx, frozen, outcome)
	}

	return &SettleResult{
		Winner: outcome.Winner,
		Tie:    outcome.Tie,
		Scores: outcome.Scores,
		Wagers: outcome.Wagers,
	}, nil
}

// payout applies the settlement exactly once per room: winner takes the
// whole pool, ties refund every reservation, and both players get a
// match-history entry.
func (uc *BattleUseCase) payout(ctx context.Context, roomID string, outcome Outcome) error {
	if outcome.Tie {
		for player, refund := range outcome.Refunds {
			if refund > 0 {
				if err := uc.ledger.Credit(ctx, player, refund, "refund:"+roomID); err != nil {
					// TODO: queue a compensation retry instead of failing the call
					logger.Error(ctx).Err(err).Str("player", player).Msg("Tie refund failed")
					return err
				}
			}
		}
		for player := range outcome.Refunds {
			opponent := ""
			for other := range outcome.Refunds {
				if other != player {
					opponent = other
				}
			}
			if err := uc.ledger.RecordMatch(ctx, player, opponent, ledgerdomain.ResultTie); err != nil {
				logger.Error(ctx).Err(err).Str("player", player).Msg("Failed to record tie")
				return err
			}
		}

		logger.Info(ctx).Msg("Battle settled as a tie, wagers refunded")
		return nil
	}

	if err := uc.ledger.Credit(ctx, outcome.Winner, outcome.Pool, "win:"+roomID); err != nil {
		// TODO: queue a compensation retry instead of failing the call
		logger.Error(ctx).Err(err).Str("winner", outcome.Winner).Msg("Winner payout failed")
		return err
	}
	if err := uc.ledger.RecordMatch(ctx, outcome.Winner, outcome.Loser, ledgerdomain.ResultWin); err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to record win")
		return err
	}
	if err := uc.ledger.RecordMatch(ctx, outcome.Loser, outcome.Winner, ledgerdomain.ResultLoss); err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to record loss")
		return err
	}

	logger.Info(ctx).
		Str("winner", outcome.Winner).
		Int64("pool", outcome.Pool).
		Msg("Battle settled")
	return nil
}

func (uc *BattleUseCase) recordBattleStart(ctx context.Context, room *domain.Room) {
	if uc.records == nil || len(room.Players) < domain.MaxPlayers {
		return
	}
	record := &domain.BattleRecord{
		RecordID:  ledgerdomain.NewRecordID(),
		RoomID:    room.RoomID,
		PlayerA:   room.Players[0],
		PlayerB:   room.Players[1],
		WagerA:    room.Wagers[room.Players[0]],
		WagerB:    room.Wagers[room.Players[1]],
		Status:    domain.BattleRecordStatusInProgress,
		StartedAt: room.StartTime,
	}
	if err := uc.records.Create(ctx, record); err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to persist battle record")
	}
}

func (uc *BattleUseCase) recordBattleEnd(ctx context.Context, room *domain.Room, outcome Outcome) {
	if uc.records == nil || len(room.Players) < domain.MaxPlayers {
		return
	}
	now := time.Now()
	err := uc.records.UpdateResult(ctx, room.RoomID, outcome.Winner,
		room.Scores[room.Players[0]], room.Scores[room.Players[1]], &now)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to update battle record")
	}
}

// checkFunds verifies the player could cover the wager without reserving
// anything yet.
func (uc *BattleUseCase) checkFunds(ctx context.Context, player string, wager int64) error {
	if wager < 0 {
		return fmt.Errorf("negative wager %d", wager)
	}
	balance, err := uc.ledger.GetBalance(ctx, player)
	if err != nil {
		return mapLedgerErr(err)
	}
	if balance < wager*uc.CookiesPerWager {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// mapLedgerErr translates ledger failures into battle domain errors. A
// player unknown to the ledger cannot cover any wager.
func mapLedgerErr(err error) error {
	switch {
	case errors.Is(err, ledgerdomain.ErrInsufficientFunds),
		errors.Is(err, ledgerdomain.ErrPlayerNotFound):
		return domain.ErrInsufficientFunds
	default:
		return err
	}
}
