package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func evalBoard(t *testing.T) *Grid {
	t.Helper()
	g := NewGrid(DefaultRows, DefaultCols)
	place(t, g, 0, 0, 1, PlayerA)
	place(t, g, 8, 5, 1, PlayerA)
	place(t, g, 3, 2, 3, PlayerA)
	place(t, g, 4, 3, 2, PlayerB)
	place(t, g, 0, 3, 1, PlayerB)
	return g
}

func TestHeuristics(t *testing.T) {
	g := evalBoard(t)

	t.Run("orb difference", func(t *testing.T) {
		require.Equal(t, 2.0, OrbDifference(g, PlayerA))
		require.Equal(t, -2.0, OrbDifference(g, PlayerB))
	})

	t.Run("mobility counts empty and own cells", func(t *testing.T) {
		require.Equal(t, 52.0, Mobility(g, PlayerA))
		require.Equal(t, 51.0, Mobility(g, PlayerB))
		require.Equal(t, float64(len(g.LegalMoves(PlayerA))), Mobility(g, PlayerA))
	})

	t.Run("corner control", func(t *testing.T) {
		require.Equal(t, 2.0*CornerBonus, CornerControl(g, PlayerA))
		require.Equal(t, 0.0, CornerControl(g, PlayerB))
	})

	t.Run("critical proximity is higher closer to exploding", func(t *testing.T) {
		// A needs 1 + 1 + 1 orbs, B needs 2 + 2.
		require.Equal(t, -3.0, CriticalProximity(g, PlayerA))
		require.Equal(t, -4.0, CriticalProximity(g, PlayerB))

		closer := g.Clone()
		place(t, closer, 4, 3, 3, PlayerB)
		require.Greater(t, CriticalProximity(closer, PlayerB), CriticalProximity(g, PlayerB))
	})

	t.Run("center control", func(t *testing.T) {
		require.Equal(t, 1.0, CenterControl(g, PlayerA))
		require.Equal(t, 1.0, CenterControl(g, PlayerB))
	})

	t.Run("weighted is the linear combination", func(t *testing.T) {
		w := Weights{OrbDifference: 2, Mobility: 0.5, Corner: 1, Critical: 3, Center: -1}
		want := 2*2.0 + 0.5*52 + 1*6.0 + 3*-3.0 - 1*1.0
		require.InDelta(t, want, Weighted(w)(g, PlayerA), 1e-9)
		require.Equal(t, 0.0, Weighted(Weights{})(g, PlayerA))
	})

	t.Run("evaluations leave the grid untouched", func(t *testing.T) {
		before := g.Clone()
		for _, name := range HeuristicNames() {
			evaluate, err := Heuristic(name)
			require.NoError(t, err)
			evaluate(g, PlayerA)
			evaluate(g, PlayerB)
		}
		require.True(t, before.Equal(g))
	})
}

func TestHeuristicRegistry(t *testing.T) {
	require.Equal(t, []string{"center", "corner", "critical", "mobility", "orb_diff", "stability", "weighted"}, HeuristicNames())

	evaluate, err := Heuristic("orb_diff")
	require.NoError(t, err)
	require.Equal(t, 2.0, evaluate(evalBoard(t), PlayerA))

	_, err = Heuristic("material")
	require.ErrorIs(t, err, ErrUnknownHeuristic)
}
