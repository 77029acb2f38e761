// Package domain defines the player ledger consumed by the battle core.
package domain

import (
	"context"
	"errors"
)

// MatchResult is the outcome recorded in a player's match history
type MatchResult string

const (
	ResultWin  MatchResult = "win"
	ResultLoss MatchResult = "loss"
	ResultTie  MatchResult = "tie"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrInsufficientFunds = errors.New("not enough cookies to bet that amount")
)

// Service is the ledger contract the battle core depends on: an atomic
// balance with reserve/credit plus win/loss counters and match history.
type Service interface {
	// GetBalance returns the player's spendable cookie balance
	GetBalance(ctx context.Context, player string) (int64, error)

	// Reserve atomically debits amount from the player's balance.
	// ErrInsufficientFunds if the balance would go negative.
	Reserve(ctx context.Context, player string, amount int64) error

	// Credit adds amount to the player's balance
	Credit(ctx context.Context, player string, amount int64, reason string) error

	// RecordMatch appends a match-history entry and bumps the win/loss
	// counter for win and loss results. Ties bump neither counter.
	RecordMatch(ctx context.Context, player, opponent string, result MatchResult) error
}
