package searcher

import (
	"chainreaction/game"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// fullMinimax is an unpruned reference search returning the score and the
// first best root move.
func fullMinimax(t *testing.T, state *game.GameState, depth int, root game.Player, evaluate game.Evaluate) (float64, game.Move, bool) {
	t.Helper()
	if depth == 0 || state.Over() {
		return evaluate(state.Grid, root), game.Move{}, false
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return evaluate(state.Grid, root), game.Move{}, false
	}

	maximizing := state.ToMove == root
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	var bestMove game.Move
	found := false
	for _, move := range moves {
		child, err := state.Play(move)
		require.NoError(t, err)
		score, _, _ := fullMinimax(t, child, depth-1, root, evaluate)
		if (maximizing && score > best) || (!maximizing && score < best) || !found {
			best, bestMove, found = score, move, true
		}
	}
	return best, bestMove, found
}

func randomState(t *testing.T, rng *rand.Rand, rows, cols, plies int) *game.GameState {
	t.Helper()
	state := game.NewGameState(rows, cols, game.PlayerA)
	for range plies {
		if state.Over() {
			break
		}
		moves := state.LegalMoves()
		require.NoError(t, state.Apply(moves[rng.Intn(len(moves))]))
	}
	return state
}

// playingState returns a random position where the game is still on.
func playingState(t *testing.T, rng *rand.Rand, rows, cols, plies int) *game.GameState {
	t.Helper()
	for {
		if state := randomState(t, rng, rows, cols, plies); !state.Over() {
			return state
		}
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	cases := []struct {
		name      string
		rows      int
		cols      int
		depth     int
		positions int
		heuristic string
	}{
		{"small board depth 3", 4, 4, 3, 12, "orb_diff"},
		{"small board weighted", 4, 4, 3, 8, "weighted"},
		{"standard board depth 2", game.DefaultRows, game.DefaultCols, 2, 6, "weighted"},
		{"standard board corners", game.DefaultRows, game.DefaultCols, 2, 4, "corner"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			evaluate, err := game.Heuristic(tc.heuristic)
			require.NoError(t, err)

			for range tc.positions {
				state := randomState(t, rng, tc.rows, tc.cols, rng.Intn(20))
				if state.Over() {
					continue
				}
				m := NewMinimax(WithDepth(tc.depth), WithEvaluation(tc.heuristic, evaluate))

				result, _, err := m.Search(state)
				require.NoError(t, err)

				score, move, found := fullMinimax(t, state, tc.depth, state.ToMove, evaluate)
				require.Equal(t, found, result.Found)
				require.InDelta(t, score, result.Score, 1e-9, "Pruned score should equal full minimax on\n%s", state.Grid)
				require.Equal(t, move, result.Move, "Tie-break should pick the first best move")
			}
		})
	}
}

func TestSearchScenarios(t *testing.T) {
	t.Run("single legal move at depth 1 scores the resulting board", func(t *testing.T) {
		g := game.NewGrid(2, 2)
		require.NoError(t, g.Set(0, 0, game.Cell{Count: 1, Owner: game.PlayerB}))
		require.NoError(t, g.Set(0, 1, game.Cell{Count: 1, Owner: game.PlayerB}))
		require.NoError(t, g.Set(1, 0, game.Cell{Count: 1, Owner: game.PlayerB}))
		require.NoError(t, g.Set(1, 1, game.Cell{Count: 1, Owner: game.PlayerA}))
		state := game.Resume(g, game.PlayerA)
		require.Len(t, state.LegalMoves(), 1)

		result, err := BestMove(g, game.PlayerA, 1, "weighted")

		require.NoError(t, err)
		require.True(t, result.Found)
		require.Equal(t, game.Move{Row: 1, Col: 1}, result.Move)
		after, err := state.Play(game.Move{Row: 1, Col: 1})
		require.NoError(t, err)
		require.Equal(t, game.Weighted(game.DefaultWeights())(after.Grid, game.PlayerA), result.Score)
		require.Equal(t, game.Cell{Count: 1, Owner: game.PlayerA}, g.At(1, 1), "BestMove should not mutate its input")
	})

	t.Run("no legal moves at the root finds nothing", func(t *testing.T) {
		g := game.NewGrid(2, 2)
		for _, m := range []game.Move{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}} {
			require.NoError(t, g.Set(m.Row, m.Col, game.Cell{Count: 1, Owner: game.PlayerB}))
		}
		state := &game.GameState{Grid: g, ToMove: game.PlayerA, Moves: 1}

		result, _, err := NewMinimax(WithDepth(2)).Search(state)

		require.NoError(t, err)
		require.False(t, result.Found)
	})

	t.Run("takes an immediate win", func(t *testing.T) {
		g := game.NewGrid(game.DefaultRows, game.DefaultCols)
		require.NoError(t, g.Set(0, 0, game.Cell{Count: 1, Owner: game.PlayerA}))
		require.NoError(t, g.Set(0, 1, game.Cell{Count: 1, Owner: game.PlayerB}))
		require.NoError(t, g.Set(5, 3, game.Cell{Count: 1, Owner: game.PlayerA}))

		result, err := BestMove(g, game.PlayerA, 2, "orb_diff")

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 0}, result.Move)
		require.Equal(t, 4.0, result.Score)
	})

	t.Run("first move of the game is not a terminal position", func(t *testing.T) {
		state := game.NewGameState(4, 4, game.PlayerA)
		require.NoError(t, state.Apply(game.Move{Row: 0, Col: 0}))

		result, _, err := NewMinimax(WithDepth(2), WithEvaluation("orb_diff", game.OrbDifference)).Search(state)

		require.NoError(t, err)
		require.True(t, result.Found, "Second player should still get to move")
	})

	t.Run("unknown heuristic", func(t *testing.T) {
		_, err := BestMove(game.NewGrid(3, 3), game.PlayerA, 2, "material")
		require.ErrorIs(t, err, game.ErrUnknownHeuristic)
	})

	t.Run("zero depth only evaluates", func(t *testing.T) {
		g := game.NewGrid(3, 3)
		require.NoError(t, g.Set(1, 1, game.Cell{Count: 2, Owner: game.PlayerA}))
		result, err := BestMove(g, game.PlayerA, 0, "orb_diff")
		require.NoError(t, err)
		require.False(t, result.Found)
		require.Equal(t, 2.0, result.Score)
	})
}

func TestNewMinimax(t *testing.T) {
	m := NewMinimax()
	require.Equal(t, DefaultDepth, m.Depth())
	require.Equal(t, game.WeightedHeuristic, m.Heuristic())

	m = NewMinimax(WithDepth(0), WithEvaluation("corner", nil))
	require.Equal(t, DefaultDepth, m.Depth(), "Invalid options should keep defaults")
	require.Equal(t, game.WeightedHeuristic, m.Heuristic())
}

func TestSearchMetrics(t *testing.T) {
	state := playingState(t, rand.New(rand.NewSource(3)), game.DefaultRows, game.DefaultCols, 6)
	m := NewMinimax(WithDepth(2), WithMetrics())

	_, metric, err := m.Search(state)

	require.NoError(t, err)
	require.Equal(t, 2, metric.Depth)
	require.Equal(t, 2, metric.CompletedDepth)
	require.Equal(t, game.WeightedHeuristic, metric.Heuristic)
	require.Greater(t, metric.Nodes, metric.Leaves)
	require.Positive(t, metric.Leaves)
}

func TestDeepen(t *testing.T) {
	state := playingState(t, rand.New(rand.NewSource(5)), 5, 5, 8)

	t.Run("matches a fixed-depth search when not interrupted", func(t *testing.T) {
		m := NewMinimax(WithDepth(3), WithMetrics())
		want, _, err := m.Search(state)
		require.NoError(t, err)

		got, metric, err := m.Deepen(context.Background(), state)

		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, 3, metric.CompletedDepth)
	})

	t.Run("cancelled context still returns a depth 1 move", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := NewMinimax(WithDepth(4), WithMetrics())

		got, metric, err := m.Deepen(ctx, state)

		require.NoError(t, err)
		require.True(t, got.Found)
		require.Equal(t, 1, got.Depth)
		require.Equal(t, 1, metric.CompletedDepth)

		want, _, err := NewMinimax(WithDepth(1)).Search(state)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}
