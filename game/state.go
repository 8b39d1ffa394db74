package game

import (
	"encoding/binary"
	"hash/fnv"
)

// GameState pairs a board with the side to move. Moves counts the plies played
// so far and only matters during the opening, when the second player has no
// orbs yet but has not lost.
type GameState struct {
	Grid   *Grid
	ToMove Player
	Moves  int
}

// NewGameState returns the initial position: an empty board with first to move.
func NewGameState(rows, cols int, first Player) *GameState {
	return &GameState{
		Grid:   NewGrid(rows, cols),
		ToMove: first,
	}
}

// Resume rebuilds a state from a bare board. A side to move with no orbs
// facing the single orb of the opening move has not moved yet; facing more
// orbs, it has been eliminated.
func Resume(g *Grid, toMove Player) *GameState {
	own, other := g.CountOrbs(toMove), g.CountOrbs(toMove.Opponent())
	moves := 2
	switch {
	case own == 0 && other == 0:
		moves = 0
	case own == 0 && other == 1:
		moves = 1
	}
	return &GameState{Grid: g, ToMove: toMove, Moves: moves}
}

func (s *GameState) Copy() *GameState {
	return &GameState{
		Grid:   s.Grid.Clone(),
		ToMove: s.ToMove,
		Moves:  s.Moves,
	}
}

func (s *GameState) LegalMoves() []Move {
	return s.Grid.LegalMoves(s.ToMove)
}

// Apply plays move for the side to move in place and hands the turn over.
func (s *GameState) Apply(move Move) error {
	if err := s.Grid.ApplyMove(s.ToMove, move.Row, move.Col); err != nil {
		return err
	}
	s.ToMove = s.ToMove.Opponent()
	s.Moves++
	return nil
}

// Play returns the state after move, leaving s untouched.
func (s *GameState) Play(move Move) (*GameState, error) {
	next := s.Copy()
	if err := next.Apply(move); err != nil {
		return nil, err
	}
	return next, nil
}

// Pass hands the turn over without placing an orb.
func (s *GameState) Pass() {
	s.ToMove = s.ToMove.Opponent()
	s.Moves++
}

// Over is true once both sides have moved and one of them has been
// eliminated.
func (s *GameState) Over() bool {
	return s.Moves >= len(Players) && s.Grid.IsTerminal()
}

// Winner returns the surviving player of a finished game, None otherwise.
func (s *GameState) Winner() Player {
	if !s.Over() {
		return None
	}
	return s.Grid.Winner()
}

func (s *GameState) Hash() uint64 {
	hasher := fnv.New64a()
	binary.Write(hasher, binary.LittleEndian, s.Grid.Hash())
	binary.Write(hasher, binary.LittleEndian, int64(s.ToMove))
	return hasher.Sum64()
}
