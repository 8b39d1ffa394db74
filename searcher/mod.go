package searcher

import (
	"chainreaction/game"
)

const DefaultDepth = 3

// Result is the outcome of a search from the root player's perspective.
// Found is false when the root had no legal moves, in which case Move is
// meaningless and the caller must resign or pass.
type Result struct {
	Score float64
	Move  game.Move
	Found bool
	Depth int // Deepest fully searched depth
}
