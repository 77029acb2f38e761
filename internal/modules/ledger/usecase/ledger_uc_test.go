package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/domain"
	"github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/repository"
	"github.com/Srekanthnamilakonda/Pookie/pkg/logger"
)

func init() {
	logger.Init(logger.Config{Level: "error", Format: "console"})
}

func newTestLedger(t *testing.T) *LedgerUseCase {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Player{}, &domain.MatchRecord{}))

	require.NoError(t, db.Create(&domain.Player{Username: "alice", Cookies: 100}).Error)
	require.NoError(t, db.Create(&domain.Player{Username: "bob", Cookies: 30}).Error)

	return NewLedgerUseCase(repository.NewPlayerRepository(db))
}

func TestGetBalance(t *testing.T) {
	uc := newTestLedger(t)
	ctx := context.Background()

	balance, err := uc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	_, err = uc.GetBalance(ctx, "nosuch")
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestReserve(t *testing.T) {
	uc := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, uc.Reserve(ctx, "alice", 40))
	balance, err := uc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(60), balance)

	// Overdraw is refused and leaves the balance untouched
	assert.ErrorIs(t, uc.Reserve(ctx, "bob", 31), domain.ErrInsufficientFunds)
	balance, err = uc.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)

	assert.ErrorIs(t, uc.Reserve(ctx, "nosuch", 1), domain.ErrPlayerNotFound)
	assert.Error(t, uc.Reserve(ctx, "alice", -1))
}

func TestCredit(t *testing.T) {
	uc := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, uc.Credit(ctx, "alice", 50, "win:abc123"))
	balance, err := uc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)

	assert.ErrorIs(t, uc.Credit(ctx, "nosuch", 1, "win:abc123"), domain.ErrPlayerNotFound)
}

func TestRecordMatch(t *testing.T) {
	uc := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, uc.RecordMatch(ctx, "alice", "bob", domain.ResultWin))
	require.NoError(t, uc.RecordMatch(ctx, "bob", "alice", domain.ResultLoss))
	require.NoError(t, uc.RecordMatch(ctx, "alice", "bob", domain.ResultTie))

	alice, err := uc.players.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.Wins)
	assert.Equal(t, int64(0), alice.Losses)

	bob, err := uc.players.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), bob.Losses)

	assert.Error(t, uc.RecordMatch(ctx, "alice", "bob", domain.MatchResult("draw")))
}
