package usecase

import (
	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/domain"
)

// Outcome is the deterministic settlement of a finished battle. It is a
// pure function of the frozen room, so recomputing it for repeated settle
// calls always yields the identical result.
type Outcome struct {
	Winner  string // empty on tie
	Loser   string
	Tie     bool
	Pool    int64            // cookies paid to the winner
	Refunds map[string]int64 // cookies returned per player on a tie
	Scores  map[string]int64
	Wagers  map[string]int64
}

// DecideOutcome scores the frozen room. The strictly higher click count
// wins the whole pool; equal counts are a tie and every reservation is
// returned to its owner.
func DecideOutcome(room *domain.Room, cookiesPerWager int64) Outcome {
	out := Outcome{
		Scores: make(map[string]int64, len(room.Players)),
		Wagers: make(map[string]int64, len(room.Players)),
	}
	var pool int64
	for _, p := range room.Players {
		out.Scores[p] = room.Scores[p]
		out.Wagers[p] = room.Wagers[p]
		pool += room.Wagers[p] * cookiesPerWager
	}

	winner, ok := room.Winner()
	if !ok {
		out.Tie = true
		out.Refunds = make(map[string]int64, len(room.Players))
		for _, p := range room.Players {
			out.Refunds[p] = room.Wagers[p] * cookiesPerWager
		}
		return out
	}

	out.Winner = winner
	out.Pool = pool
	for _, p := range room.Players {
		if p != winner {
			out.Loser = p
		}
	}
	return out
}
