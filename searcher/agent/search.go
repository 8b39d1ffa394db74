package agent

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/searcher"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type searchAgent struct {
	mu        sync.Mutex // Minimax reuses one metrics collector
	minimax   *searcher.Minimax
	timeLimit time.Duration
}

// NewSearchAgent returns an agent playing the minimax move. With a positive
// time limit, or a deadline on the context, it deepens iteratively and plays
// the deepest completed result.
func NewSearchAgent(minimax *searcher.Minimax, timeLimit time.Duration) Agent {
	return &searchAgent{minimax: minimax, timeLimit: timeLimit}
}

func (a *searchAgent) FindMove(ctx context.Context, state *game.GameState) (game.Move, metrics.SearchMetric, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var (
		result searcher.Result
		metric metrics.SearchMetric
		err    error
	)
	_, hasDeadline := ctx.Deadline()
	if a.timeLimit > 0 || hasDeadline {
		if a.timeLimit > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.timeLimit)
			defer cancel()
		}
		result, metric, err = a.minimax.Deepen(ctx, state)
	} else {
		result, metric, err = a.minimax.Search(state)
	}
	if err != nil {
		return game.Move{}, metric, err
	}
	// Without a collector the metric is empty; the result is always known.
	metric.Depth = a.minimax.Depth()
	metric.Heuristic = a.minimax.Heuristic()
	metric.CompletedDepth = result.Depth
	metric.Score = result.Score
	if !result.Found {
		return game.Move{}, metric, game.ErrNoLegalMoves
	}

	log.Debug().
		Str("player", state.ToMove.String()).
		Str("move", result.Move.String()).
		Float64("score", result.Score).
		Int("depth", result.Depth).
		Int("nodes", metric.Nodes).
		Msg("search finished")
	return result.Move, metric, nil
}
