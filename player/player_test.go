package player

import (
	"bytes"
	"chainreaction/game"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	for _, input := range []string{"3 4", "3,4", " 3 , 4 ", "3\t4"} {
		move, err := ParseMove(input)
		require.NoError(t, err, input)
		require.Equal(t, game.Move{Row: 3, Col: 4}, move)
	}

	for _, input := range []string{"", "3", "3 4 5", "a 4", "3 b"} {
		_, err := ParseMove(input)
		require.Error(t, err, input)
	}
}

func TestHuman(t *testing.T) {
	g := game.NewGrid(3, 3)
	require.NoError(t, g.Set(0, 0, game.Cell{Count: 1, Owner: game.PlayerB}))
	state := game.Resume(g, game.PlayerA)

	t.Run("re-prompts until the move is legal", func(t *testing.T) {
		var out bytes.Buffer
		h := NewHuman(strings.NewReader("nonsense\n7 7\n0 0\n2 1\n"), &out)

		move, _, err := h.FindMove(context.Background(), state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 2, Col: 1}, move)
		require.Equal(t, 4, strings.Count(out.String(), "enter row and column"))
		require.Contains(t, out.String(), "belongs to your opponent")
		require.Contains(t, out.String(), "off the 3x3 board")
	})

	t.Run("closed input", func(t *testing.T) {
		h := NewHuman(strings.NewReader("0 0\n"), io.Discard)
		_, _, err := h.FindMove(context.Background(), state)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("no legal moves", func(t *testing.T) {
		full := game.NewGrid(2, 2)
		for _, m := range []game.Move{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}} {
			require.NoError(t, full.Set(m.Row, m.Col, game.Cell{Count: 1, Owner: game.PlayerB}))
		}
		h := NewHuman(strings.NewReader("0 0\n"), io.Discard)
		_, _, err := h.FindMove(context.Background(), &game.GameState{Grid: full, ToMove: game.PlayerA, Moves: 1})
		require.ErrorIs(t, err, game.ErrNoLegalMoves)
	})
}

func TestRender(t *testing.T) {
	g := game.NewGrid(2, 3)
	require.NoError(t, g.Set(0, 2, game.Cell{Count: 2, Owner: game.PlayerA}))
	require.NoError(t, g.Set(1, 0, game.Cell{Count: 1, Owner: game.PlayerB}))

	lines := strings.Split(ansi.Strip(Render(g)), "\n")

	require.Equal(t, []string{
		"       0   1   2",
		"   0   .   .  2R",
		"   1  1B   .   .",
	}, lines)
}
