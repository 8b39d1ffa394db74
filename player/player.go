package player

import (
	"bufio"
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Human is an agent that reads moves from a console.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// FindMove prompts until a legal move is entered. Closed input ends the
// game with io.ErrUnexpectedEOF.
func (h *Human) FindMove(ctx context.Context, state *game.GameState) (game.Move, metrics.SearchMetric, error) {
	if len(state.LegalMoves()) == 0 {
		return game.Move{}, metrics.SearchMetric{}, game.ErrNoLegalMoves
	}

	fmt.Fprintln(h.out, Render(state.Grid))
	for {
		if err := ctx.Err(); err != nil {
			return game.Move{}, metrics.SearchMetric{}, err
		}
		fmt.Fprintf(h.out, "Player %s, enter row and column: ", state.ToMove)
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return game.Move{}, metrics.SearchMetric{}, err
			}
			return game.Move{}, metrics.SearchMetric{}, io.ErrUnexpectedEOF
		}

		move, err := ParseMove(h.in.Text())
		if err != nil {
			fmt.Fprintln(h.out, err)
			continue
		}
		if !state.Grid.InBounds(move.Row, move.Col) {
			fmt.Fprintf(h.out, "%v is off the %dx%d board\n", move, state.Grid.Rows(), state.Grid.Cols())
			continue
		}
		if !state.Grid.IsLegal(state.ToMove, move.Row, move.Col) {
			fmt.Fprintf(h.out, "%v belongs to your opponent\n", move)
			continue
		}
		return move, metrics.SearchMetric{}, nil
	}
}

// ParseMove accepts "row col" or "row,col".
func ParseMove(s string) (game.Move, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return game.Move{}, fmt.Errorf("want row and column, got %q", strings.TrimSpace(s))
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return game.Move{}, fmt.Errorf("invalid row %q", fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return game.Move{}, fmt.Errorf("invalid column %q", fields[1])
	}
	return game.Move{Row: row, Col: col}, nil
}
