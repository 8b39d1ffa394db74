package experiments

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/searcher"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Throughput struct {
	Config    metrics.AgentConfig
	Positions int
	Nodes     int
	Cutoffs   int
	Duration  time.Duration
}

func (t Throughput) NodesPerSecond() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return float64(t.Nodes) / t.Duration.Seconds()
}

// Positions samples count unfinished positions reached by random play.
func Positions(rows, cols, count int, seed uint64) []*game.GameState {
	rng := rand.New(rand.NewSource(seed))
	positions := make([]*game.GameState, 0, count)
	for len(positions) < count {
		state := game.NewGameState(rows, cols, game.PlayerA)
		plies := rng.Intn(rows * cols)
		for range plies {
			moves := state.LegalMoves()
			if state.Over() || len(moves) == 0 {
				break
			}
			if err := state.Apply(moves[rng.Intn(len(moves))]); err != nil {
				panic(err) // Moves are legal
			}
		}
		if !state.Over() && len(state.LegalMoves()) > 0 {
			positions = append(positions, state)
		}
	}
	return positions
}

// RunThroughput runs a fixed-depth search from every position with each
// search config and reports node rates.
func RunThroughput(configs []metrics.AgentConfig, weights game.Weights, positions []*game.GameState) ([]Throughput, error) {
	results := make([]Throughput, 0, len(configs))
	for _, config := range configs {
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

		result := Throughput{Config: config, Positions: len(positions)}
		for _, state := range positions {
			_, metric, err := m.Search(state)
			if err != nil {
				return nil, err
			}
			result.Nodes += metric.Nodes
			result.Cutoffs += metric.Cutoffs
			result.Duration += metric.Duration
		}
		log.Info().Msgf("%s: %d nodes in %s (%.0f nodes/s)", config, result.Nodes, result.Duration, result.NodesPerSecond())
		results = append(results, result)
	}
	return results, nil
}
