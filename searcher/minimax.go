package searcher

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

type Option func(m *Minimax)

// Minimax is a depth-limited alpha-beta searcher. Scores are always from the
// perspective of the player to move at the root.
type Minimax struct {
	depth     int
	heuristic string
	evaluate  game.Evaluate
	metrics   metrics.Collector
	record    bool
}

func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

// WithEvaluation sets the leaf evaluation. The name labels metrics and logs.
func WithEvaluation(name string, evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.heuristic = name
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.metrics = metrics.NewCollector()
		m.record = true
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		depth:     DefaultDepth,
		heuristic: game.WeightedHeuristic,
		evaluate:  game.Weighted(game.DefaultWeights()),
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.depth < 1 {
		panic("Search depth must be at least 1")
	}
	return m
}

func (m *Minimax) Depth() int {
	return m.depth
}

func (m *Minimax) Heuristic() string {
	return m.heuristic
}

// Search runs a full search to the configured depth.
func (m *Minimax) Search(state *game.GameState) (Result, metrics.SearchMetric, error) {
	m.metrics.Start(m.depth, m.heuristic)
	result, _, err := m.searchRoot(context.Background(), state, m.depth)
	if err != nil {
		return Result{}, metrics.SearchMetric{}, err
	}
	m.metrics.SetCompletedDepth(result.Depth)
	return result, m.complete(result), nil
}

// Deepen searches depth 1, 2, ... up to the configured depth and returns the
// deepest completed result. ctx is checked between root moves; an
// interrupted iteration is discarded. Depth 1 always runs to completion so a
// move is available whenever one exists.
func (m *Minimax) Deepen(ctx context.Context, state *game.GameState) (Result, metrics.SearchMetric, error) {
	m.metrics.Start(m.depth, m.heuristic)

	var best Result
	for depth := 1; depth <= m.depth; depth++ {
		iterCtx := ctx
		if depth == 1 {
			iterCtx = context.Background()
		}
		result, completed, err := m.searchRoot(iterCtx, state, depth)
		if err != nil {
			return Result{}, metrics.SearchMetric{}, err
		}
		if !completed {
			log.Debug().Msgf("search interrupted at depth %d, keeping depth %d", depth, best.Depth)
			break
		}
		best = result
		m.metrics.SetCompletedDepth(depth)
		if !result.Found || state.Over() {
			break // Deeper iterations cannot change a forced result
		}
	}
	return best, m.complete(best), nil
}

func (m *Minimax) complete(result Result) metrics.SearchMetric {
	metric := m.metrics.Complete(result.Score)
	if m.record {
		recordSearch(metric)
	}
	return metric
}

// searchRoot returns completed=false if ctx was done before every root move
// was searched.
func (m *Minimax) searchRoot(ctx context.Context, state *game.GameState, depth int) (Result, bool, error) {
	root := state.ToMove
	m.metrics.AddNode()
	if state.Over() {
		m.metrics.AddLeaf()
		return Result{Score: m.evaluate(state.Grid, root), Depth: depth}, true, nil
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		m.metrics.AddLeaf()
		return Result{Score: m.evaluate(state.Grid, root), Depth: depth}, true, nil
	}

	result := Result{Score: math.Inf(-1), Depth: depth}
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, move := range moves {
		if ctx.Err() != nil {
			return result, false, nil
		}
		child, err := state.Play(move)
		if err != nil {
			return Result{}, false, fmt.Errorf("search root move %v: %w", move, err)
		}
		score, err := m.alphaBeta(child, depth-1, alpha, beta, root)
		if err != nil {
			return Result{}, false, err
		}
		// Strictly greater keeps the first of equally scored moves
		if !result.Found || score > result.Score {
			result.Score = score
			result.Move = move
			result.Found = true
		}
		alpha = math.Max(alpha, result.Score)
	}
	return result, true, nil
}

func (m *Minimax) alphaBeta(state *game.GameState, depth int, alpha, beta float64, root game.Player) (float64, error) {
	m.metrics.AddNode()
	if depth == 0 || state.Over() {
		m.metrics.AddLeaf()
		return m.evaluate(state.Grid, root), nil
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		m.metrics.AddLeaf()
		return m.evaluate(state.Grid, root), nil
	}

	maximizing := state.ToMove == root
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, move := range moves {
		child, err := state.Play(move)
		if err != nil {
			return 0, fmt.Errorf("search move %v: %w", move, err)
		}
		score, err := m.alphaBeta(child, depth-1, alpha, beta, root)
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = math.Max(best, score)
			alpha = math.Max(alpha, best)
		} else {
			best = math.Min(best, score)
			beta = math.Min(beta, best)
		}
		if beta <= alpha {
			m.metrics.AddCutoff()
			break
		}
	}
	return best, nil
}

// BestMove searches grid for player with the named heuristic. A depth below
// 1 only evaluates the board.
func BestMove(grid *game.Grid, player game.Player, depth int, heuristic string) (Result, error) {
	evaluate, err := game.Heuristic(heuristic)
	if err != nil {
		return Result{}, err
	}
	if player != game.PlayerA && player != game.PlayerB {
		return Result{}, fmt.Errorf("%w: %s is not a player", game.ErrIllegalMove, player)
	}
	if depth < 1 {
		return Result{Score: evaluate(grid, player)}, nil
	}

	m := NewMinimax(WithDepth(depth), WithEvaluation(heuristic, evaluate))
	result, _, err := m.Search(game.Resume(grid.Clone(), player))
	return result, err
}
