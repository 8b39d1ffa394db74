package agent

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"context"
	"sync"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays a uniformly random legal move.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(_ context.Context, state *game.GameState) (game.Move, metrics.SearchMetric, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, game.ErrNoLegalMoves
	}
	a.mu.Lock()
	move := moves[a.rng.Intn(len(moves))]
	a.mu.Unlock()
	return move, metrics.SearchMetric{}, nil
}
