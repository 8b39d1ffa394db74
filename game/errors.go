package game

import "errors"

var (
	// ErrIllegalMove is returned when a player places into a cell owned by
	// the opponent. Callers offering moves from LegalMoves never see it.
	ErrIllegalMove = errors.New("illegal move")

	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrMalformedState is returned when the board text cannot be parsed.
	ErrMalformedState = errors.New("malformed board state")

	// ErrInvariantViolation is returned when explosion resolution exceeds its
	// iteration cap. It indicates a bug and the grid must be discarded.
	ErrInvariantViolation = errors.New("internal invariant violated")

	// ErrNoLegalMoves is returned by agents asked to move without options.
	ErrNoLegalMoves = errors.New("no legal moves")

	// ErrUnknownHeuristic is returned for heuristic names not registered.
	ErrUnknownHeuristic = errors.New("unknown heuristic")
)
