package agent

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/searcher"
	"context"
	"fmt"
)

type Agent interface {
	// FindMove returns a legal move for the side to move and search metrics
	// (if collected). It returns game.ErrNoLegalMoves when there is none.
	FindMove(ctx context.Context, state *game.GameState) (game.Move, metrics.SearchMetric, error)
}

// New builds an agent from an experiment config. Weights apply to the
// weighted heuristic only.
func New(config metrics.AgentConfig, weights game.Weights, seed uint64) (Agent, error) {
	switch config.Kind {
	case metrics.RandomAgent:
		return NewRandomAgent(seed), nil
	case metrics.SearchAgent, "":
		evaluate, err := game.Heuristic(config.Heuristic)
		if err != nil {
			return nil, err
		}
		if config.Heuristic == game.WeightedHeuristic {
			evaluate = game.Weighted(weights)
		}
		if config.Depth < 1 {
			return nil, fmt.Errorf("agent %d: search depth must be at least 1, got %d", config.ID, config.Depth)
		}
		m := searcher.NewMinimax(
			searcher.WithDepth(config.Depth),
			searcher.WithEvaluation(config.Heuristic, evaluate),
			searcher.WithMetrics(),
		)
		return NewSearchAgent(m, config.TimeLimit), nil
	}
	return nil, fmt.Errorf("agent %d: unknown kind %q", config.ID, config.Kind)
}
