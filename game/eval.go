package game

import (
	"fmt"
	"slices"
)

// CornerBonus is awarded per corner cell owned by the player.
const CornerBonus = 3

// OrbDifference is the player's orb total minus the opponent's.
func OrbDifference(g *Grid, player Player) float64 {
	return float64(g.CountOrbs(player) - g.CountOrbs(player.Opponent()))
}

// Mobility counts the legal moves available to player.
func Mobility(g *Grid, player Player) float64 {
	moves := 0
	for _, cell := range g.cells {
		if cell.Owner == None || cell.Owner == player {
			moves++
		}
	}
	return float64(moves)
}

// CornerControl rewards owning corners, which explode with only two orbs.
func CornerControl(g *Grid, player Player) float64 {
	score := 0
	for _, row := range []int{0, g.rows - 1} {
		for _, col := range []int{0, g.cols - 1} {
			if g.cells[g.index(row, col)].Owner == player {
				score += CornerBonus
			}
		}
	}
	return float64(score)
}

// CriticalProximity is the negated number of orbs the player's cells still
// need before exploding. Cells close to critical mass raise the score.
func CriticalProximity(g *Grid, player Player) float64 {
	needed := 0
	for i, cell := range g.cells {
		if cell.Owner == player {
			needed += g.criticalMassAt(i) - cell.Count
		}
	}
	return -float64(needed)
}

// CenterControl counts owned cells at least two squares away from every edge.
func CenterControl(g *Grid, player Player) float64 {
	owned := 0
	for row := 2; row < g.rows-2; row++ {
		for col := 2; col < g.cols-2; col++ {
			if g.cells[g.index(row, col)].Owner == player {
				owned++
			}
		}
	}
	return float64(owned)
}

// Weights are the coefficients of the weighted evaluation.
type Weights struct {
	OrbDifference float64 `yaml:"orb_difference" json:"orb_difference"`
	Mobility      float64 `yaml:"mobility" json:"mobility"`
	Corner        float64 `yaml:"corner" json:"corner"`
	Critical      float64 `yaml:"critical" json:"critical"`
	Center        float64 `yaml:"center" json:"center"`
}

func DefaultWeights() Weights {
	return Weights{
		OrbDifference: 3,
		Mobility:      1,
		Corner:        1,
		Critical:      1,
		Center:        1,
	}
}

// Weighted combines every heuristic linearly.
func Weighted(w Weights) Evaluate {
	return func(g *Grid, player Player) float64 {
		score := 0.0
		if w.OrbDifference != 0 {
			score += w.OrbDifference * OrbDifference(g, player)
		}
		if w.Mobility != 0 {
			score += w.Mobility * Mobility(g, player)
		}
		if w.Corner != 0 {
			score += w.Corner * CornerControl(g, player)
		}
		if w.Critical != 0 {
			score += w.Critical * CriticalProximity(g, player)
		}
		if w.Center != 0 {
			score += w.Center * CenterControl(g, player)
		}
		return score
	}
}

const WeightedHeuristic = "weighted"

var heuristics = map[string]Evaluate{
	"orb_diff":        OrbDifference,
	"mobility":        Mobility,
	"corner":          CornerControl,
	"critical":        CriticalProximity,
	"stability":       CriticalProximity,
	"center":          CenterControl,
	WeightedHeuristic: Weighted(DefaultWeights()),
}

// Heuristic looks up an evaluation by name.
func Heuristic(name string) (Evaluate, error) {
	evaluate, ok := heuristics[name]
	if !ok {
		return nil, fmt.Errorf("%w %q: want one of %v", ErrUnknownHeuristic, name, HeuristicNames())
	}
	return evaluate, nil
}

func HeuristicNames() []string {
	names := make([]string, 0, len(heuristics))
	for name := range heuristics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
