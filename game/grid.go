package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"
)

const (
	DefaultRows = 9
	DefaultCols = 6
)

// Cell holds the orbs stacked on one square. An empty cell has no owner.
type Cell struct {
	Count int
	Owner Player
}

func (c Cell) Empty() bool {
	return c.Count == 0
}

// Grid is a rows x cols board stored row-major. Grids are mutated in place by
// ApplyMove; use Clone before exploring hypothetical moves.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// NewGrid returns an empty board. Both dimensions must be at least 2 so that
// every cell has a positive critical mass.
func NewGrid(rows, cols int) *Grid {
	if rows < 2 || cols < 2 {
		panic(fmt.Sprintf("grid must be at least 2x2, got %dx%d", rows, cols))
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

// At returns the cell at (row, col). It panics out of bounds.
func (g *Grid) At(row, col int) Cell {
	g.mustBeInBounds(row, col)
	return g.cells[g.index(row, col)]
}

// Set overwrites a cell, rejecting cells that break the owner/count invariant.
func (g *Grid) Set(row, col int, cell Cell) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	if cell.Count < 0 {
		return fmt.Errorf("%w: negative orb count %d at (%d, %d)", ErrMalformedState, cell.Count, row, col)
	}
	if (cell.Count == 0) != (cell.Owner == None) {
		return fmt.Errorf("%w: cell (%d, %d) has %d orbs owned by %s", ErrMalformedState, row, col, cell.Count, cell.Owner)
	}
	g.cells[g.index(row, col)] = cell
	return nil
}

// CriticalMass is 4 minus one for every board edge the cell touches.
func (g *Grid) CriticalMass(row, col int) int {
	g.mustBeInBounds(row, col)
	mass := 4
	if row == 0 || row == g.rows-1 {
		mass--
	}
	if col == 0 || col == g.cols-1 {
		mass--
	}
	return mass
}

func (g *Grid) criticalMassAt(i int) int {
	return g.CriticalMass(i/g.cols, i%g.cols)
}

// Neighbors returns the orthogonal neighbors in up, down, left, right order.
func (g *Grid) Neighbors(row, col int) []Move {
	g.mustBeInBounds(row, col)
	var buf [4]int
	neighbors := make([]Move, 0, 4)
	for _, i := range g.neighborIndexes(g.index(row, col), buf[:0]) {
		neighbors = append(neighbors, Move{Row: i / g.cols, Col: i % g.cols})
	}
	return neighbors
}

func (g *Grid) neighborIndexes(i int, dst []int) []int {
	row, col := i/g.cols, i%g.cols
	if row > 0 {
		dst = append(dst, i-g.cols)
	}
	if row < g.rows-1 {
		dst = append(dst, i+g.cols)
	}
	if col > 0 {
		dst = append(dst, i-1)
	}
	if col < g.cols-1 {
		dst = append(dst, i+1)
	}
	return dst
}

// Clone returns a deep copy sharing no mutable state with g.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// CountOrbs sums the orbs on cells owned by player.
func (g *Grid) CountOrbs(player Player) int {
	total := 0
	for _, cell := range g.cells {
		if cell.Owner == player {
			total += cell.Count
		}
	}
	return total
}

func (g *Grid) TotalOrbs() int {
	total := 0
	for _, cell := range g.cells {
		total += cell.Count
	}
	return total
}

// Equal reports whether both grids have the same shape and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i, cell := range g.cells {
		if other.cells[i] != cell {
			return false
		}
	}
	return true
}

// Hash is an FNV-64a digest of the board contents.
func (g *Grid) Hash() uint64 {
	hasher := fnv.New64a()
	binary.Write(hasher, binary.LittleEndian, int64(g.rows))
	binary.Write(hasher, binary.LittleEndian, int64(g.cols))
	for _, cell := range g.cells {
		binary.Write(hasher, binary.LittleEndian, int64(cell.Count))
		binary.Write(hasher, binary.LittleEndian, int64(cell.Owner))
	}
	return hasher.Sum64()
}

func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

func (g *Grid) mustBeInBounds(row, col int) {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("(%d, %d) outside %dx%d grid", row, col, g.rows, g.cols))
	}
}
