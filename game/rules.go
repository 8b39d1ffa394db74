package game

import "fmt"

// NoMovePolicy decides what happens to a side left without legal moves.
type NoMovePolicy int

const (
	// NoMovesLose ends the game in the opponent's favour.
	NoMovesLose NoMovePolicy = iota
	// NoMovesPass hands the turn to the opponent.
	NoMovesPass
)

func (p NoMovePolicy) String() string {
	switch p {
	case NoMovesLose:
		return "lose"
	case NoMovesPass:
		return "pass"
	}
	return fmt.Sprintf("NoMovePolicy(%d)", int(p))
}

func ParseNoMovePolicy(s string) (NoMovePolicy, error) {
	switch s {
	case "lose", "":
		return NoMovesLose, nil
	case "pass":
		return NoMovesPass, nil
	}
	return NoMovesLose, fmt.Errorf("unknown no-move policy %q: want lose or pass", s)
}

const DefaultMaxTurns = 500

// Rules holds the table rules the orchestration layer applies around the
// transition engine.
type Rules struct {
	NoMoves  NoMovePolicy
	MaxTurns int
}

func NewStandardRules() Rules {
	return Rules{
		NoMoves:  NoMovesLose,
		MaxTurns: DefaultMaxTurns,
	}
}
