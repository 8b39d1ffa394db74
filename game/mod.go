package game

import "fmt"

// Player is both an ownership tag on a cell and a turn indicator.
type Player int8

const (
	None Player = iota
	PlayerA
	PlayerB
)

// Players lists the two sides in turn order.
var Players = [2]Player{PlayerA, PlayerB}

// Opponent returns the other side. None has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return None
}

// Code is the single character owner code used by the board text format.
func (p Player) Code() byte {
	switch p {
	case PlayerA:
		return 'R'
	case PlayerB:
		return 'B'
	}
	return '-'
}

func (p Player) String() string {
	return string(p.Code())
}

// ParsePlayer accepts an owner code ("R" or "B", any case).
func ParsePlayer(s string) (Player, error) {
	if len(s) == 1 {
		if p, ok := playerFromCode(s[0]); ok {
			return p, nil
		}
	}
	return None, fmt.Errorf("unknown player %q: want R or B", s)
}

func playerFromCode(code byte) (Player, bool) {
	switch code {
	case 'R', 'r':
		return PlayerA, true
	case 'B', 'b':
		return PlayerB, true
	}
	return None, false
}

// Move places one orb at (Row, Col).
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (m Move) String() string {
	return fmt.Sprintf("(%d, %d)", m.Row, m.Col)
}

// Evaluate scores a board from player's perspective. Higher is better for
// player. Evaluations must not mutate the grid.
type Evaluate func(g *Grid, player Player) float64
