package game

import "fmt"

type worklistOrder int

const (
	fifo worklistOrder = iota
	lifo
)

// ApplyMove adds one orb for player at (row, col) and resolves every
// resulting explosion. The grid is only observable in its resolved form.
func (g *Grid) ApplyMove(player Player, row, col int) error {
	if player != PlayerA && player != PlayerB {
		return fmt.Errorf("%w: %s is not a player", ErrIllegalMove, player)
	}
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	i := g.index(row, col)
	cell := &g.cells[i]
	if cell.Owner != None && cell.Owner != player {
		return fmt.Errorf("%w: (%d, %d) is owned by %s", ErrIllegalMove, row, col, cell.Owner)
	}
	cell.Owner = player
	cell.Count++
	return g.resolve(i, fifo)
}

// resolve explodes cells starting from start until no cell is critical.
//
// Orb counts follow chip-firing rules: a cell's critical mass is its
// neighbor count and ownership never changes how counts move. Once every
// cell has exploded at least once the chain can never settle. If that chain
// has wiped out an opponent who held orbs when it started, the move won the
// game and the board is returned as it stands at that point. Any other
// endless chain is ErrInvariantViolation. The explosion cap backs this up.
func (g *Grid) resolve(start int, order worklistOrder) error {
	if g.cells[start].Count < g.criticalMassAt(start) {
		return nil
	}
	defender := g.cells[start].Owner.Opponent()
	defended := g.CountOrbs(defender) > 0

	limit := 4 * len(g.cells) * (g.TotalOrbs() + 1)
	pending := make([]bool, len(g.cells))
	exploded := make([]bool, len(g.cells))
	unexploded := len(g.cells)
	worklist := []int{start}
	pending[start] = true
	var buf [4]int

	for explosions := 0; len(worklist) > 0; {
		var i int
		if order == lifo {
			i = worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
		} else {
			i = worklist[0]
			worklist = worklist[1:]
		}
		pending[i] = false

		mass := g.criticalMassAt(i)
		cell := &g.cells[i]
		if cell.Count < mass {
			continue
		}
		explosions++
		if explosions > limit {
			return fmt.Errorf("%w: chain reaction did not settle after %d explosions", ErrInvariantViolation, limit)
		}
		if !exploded[i] {
			exploded[i] = true
			unexploded--
		}

		owner := cell.Owner
		cell.Count -= mass
		if cell.Count == 0 {
			cell.Owner = None
		} else if cell.Count >= mass {
			worklist = append(worklist, i)
			pending[i] = true
		}
		for _, n := range g.neighborIndexes(i, buf[:0]) {
			neighbor := &g.cells[n]
			neighbor.Owner = owner
			neighbor.Count++
			if neighbor.Count >= g.criticalMassAt(n) && !pending[n] {
				worklist = append(worklist, n)
				pending[n] = true
			}
		}

		if unexploded == 0 {
			if defended && g.CountOrbs(defender) == 0 {
				return nil
			}
			return fmt.Errorf("%w: chain reaction never settles with %d orbs", ErrInvariantViolation, g.TotalOrbs())
		}
	}
	return nil
}

// IsLegal reports whether player may place at (row, col).
func (g *Grid) IsLegal(player Player, row, col int) bool {
	if player == None || !g.InBounds(row, col) {
		return false
	}
	owner := g.cells[g.index(row, col)].Owner
	return owner == None || owner == player
}

// LegalMoves lists every empty or player-owned cell in row-major order.
func (g *Grid) LegalMoves(player Player) []Move {
	if player == None {
		return nil
	}
	moves := make([]Move, 0, len(g.cells))
	for i, cell := range g.cells {
		if cell.Owner == None || cell.Owner == player {
			moves = append(moves, Move{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return moves
}

// IsTerminal is true once one player holds every orb on a non-empty board.
func (g *Grid) IsTerminal() bool {
	return g.Winner() != None
}

// Winner returns the only player with orbs left, or None while both or
// neither hold orbs.
func (g *Grid) Winner() Player {
	a, b := g.CountOrbs(PlayerA), g.CountOrbs(PlayerB)
	switch {
	case a > 0 && b == 0:
		return PlayerA
	case b > 0 && a == 0:
		return PlayerB
	}
	return None
}
