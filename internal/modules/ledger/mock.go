// Package ledger provides an in-memory mock of the ledger service.
package ledger

import (
	"context"
	"sync"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/domain"
)

// MatchEntry is one recorded match (for test assertions)
type MatchEntry struct {
	Opponent string
	Result   domain.MatchResult
}

// MockService implements domain.Service with in-memory state
type MockService struct {
	balances map[string]int64
	wins     map[string]int64
	losses   map[string]int64
	history  map[string][]MatchEntry
	mu       sync.RWMutex
}

// NewMockService creates a new mock ledger service
func NewMockService() *MockService {
	return &MockService{
		balances: make(map[string]int64),
		wins:     make(map[string]int64),
		losses:   make(map[string]int64),
		history:  make(map[string][]MatchEntry),
	}
}

// SetBalance sets the balance for a player (for testing)
func (s *MockService) SetBalance(player string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[player] = balance
}

// GetBalance returns the player's balance
func (s *MockService) GetBalance(ctx context.Context, player string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[player], nil
}

// Reserve debits the stake, failing if the balance is short
func (s *MockService) Reserve(ctx context.Context, player string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balances[player] < amount {
		return domain.ErrInsufficientFunds
	}
	s.balances[player] -= amount
	return nil
}

// Credit adds cookies to the player's balance
func (s *MockService) Credit(ctx context.Context, player string, amount int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[player] += amount
	return nil
}

// RecordMatch appends a history entry and bumps the matching counter
func (s *MockService) RecordMatch(ctx context.Context, player, opponent string, result domain.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch result {
	case domain.ResultWin:
		s.wins[player]++
	case domain.ResultLoss:
		s.losses[player]++
	}
	s.history[player] = append(s.history[player], MatchEntry{Opponent: opponent, Result: result})
	return nil
}

// Wins returns the player's win counter (for testing)
func (s *MockService) Wins(player string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wins[player]
}

// Losses returns the player's loss counter (for testing)
func (s *MockService) Losses(player string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.losses[player]
}

// History returns the player's match history (for testing)
func (s *MockService) History(player string) []MatchEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MatchEntry, len(s.history[player]))
	copy(out, s.history[player])
	return out
}
