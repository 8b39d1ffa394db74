package game

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Lines renders one line per row: "0" for an empty cell, otherwise the orb
// count followed by the owner code, e.g. "2R".
func (g *Grid) Lines() []string {
	lines := make([]string, g.rows)
	tokens := make([]string, g.cols)
	for row := range g.rows {
		for col := range g.cols {
			cell := g.cells[g.index(row, col)]
			if cell.Empty() {
				tokens[col] = "0"
			} else {
				tokens[col] = strconv.Itoa(cell.Count) + string(cell.Owner.Code())
			}
		}
		lines[row] = strings.Join(tokens, " ")
	}
	return lines
}

// Encode writes the header line followed by the board rows.
func Encode(w io.Writer, header string, g *Grid) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, header); err != nil {
		return err
	}
	for _, line := range g.Lines() {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a header line and a board. Blank lines are skipped. A zero
// rows or cols is inferred from the input; otherwise the board must match.
func Decode(r io.Reader, rows, cols int) (string, *Grid, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, err
	}
	if len(lines) == 0 {
		return "", nil, fmt.Errorf("%w: missing header line", ErrMalformedState)
	}
	g, err := ParseLines(lines[1:], rows, cols)
	if err != nil {
		return "", nil, err
	}
	return lines[0], g, nil
}

// ParseLines parses board rows without a header.
func ParseLines(lines []string, rows, cols int) (*Grid, error) {
	if rows == 0 {
		rows = len(lines)
	}
	if len(lines) != rows {
		return nil, fmt.Errorf("%w: want %d rows, got %d", ErrMalformedState, rows, len(lines))
	}
	if rows < 2 {
		return nil, fmt.Errorf("%w: board needs at least 2 rows, got %d", ErrMalformedState, rows)
	}
	if cols == 0 {
		cols = len(strings.Fields(lines[0]))
	}
	if cols < 2 {
		return nil, fmt.Errorf("%w: board needs at least 2 columns, got %d", ErrMalformedState, cols)
	}

	g := NewGrid(rows, cols)
	for row, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedState, row, len(tokens), cols)
		}
		for col, token := range tokens {
			cell, err := parseCell(token)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d col %d: %v", ErrMalformedState, row, col, err)
			}
			g.cells[g.index(row, col)] = cell
		}
	}
	return g, nil
}

func parseCell(token string) (Cell, error) {
	if token == "0" {
		return Cell{}, nil
	}
	if len(token) < 2 {
		return Cell{}, fmt.Errorf("token %q is neither 0 nor <count><owner>", token)
	}
	owner, ok := playerFromCode(token[len(token)-1])
	if !ok {
		return Cell{}, fmt.Errorf("token %q has unknown owner code %q", token, token[len(token)-1])
	}
	digits := token[:len(token)-1]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Cell{}, fmt.Errorf("token %q has a non-decimal count", token)
		}
	}
	count, err := strconv.Atoi(digits)
	if err != nil {
		return Cell{}, fmt.Errorf("token %q: %v", token, err)
	}
	if count == 0 {
		return Cell{}, fmt.Errorf("token %q owns an empty cell", token)
	}
	return Cell{Count: count, Owner: owner}, nil
}
