package metrics

import (
	"chainreaction/game"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type SearchMetric struct {
	Depth          int
	CompletedDepth int
	Heuristic      string
	Nodes          int
	Leaves         int
	Cutoffs        int
	Score          float64
	Duration       time.Duration
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   game.Move
	SearchMetric
}

type GameMetric struct {
	ID             uuid.UUID
	StartingPlayer game.Player
	Winner         game.Player // None for an unfinished game
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(depth int, heuristic string)
	AddNode()
	AddLeaf()
	AddCutoff()
	SetCompletedDepth(depth int)
	Complete(score float64) SearchMetric
}

type collector struct {
	depth          int
	heuristic      string
	startTime      time.Time
	nodes          atomic.Int64
	leaves         atomic.Int64
	cutoffs        atomic.Int64
	completedDepth atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth int, heuristic string) {
	m.startTime = time.Now()
	m.depth = depth
	m.heuristic = heuristic
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.cutoffs.Store(0)
	m.completedDepth.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) SetCompletedDepth(depth int) {
	m.completedDepth.Store(int32(depth))
}

func (m *collector) Complete(score float64) SearchMetric {
	return SearchMetric{
		Depth:          m.depth,
		CompletedDepth: int(m.completedDepth.Load()),
		Heuristic:      m.heuristic,
		Nodes:          int(m.nodes.Load()),
		Leaves:         int(m.leaves.Load()),
		Cutoffs:        int(m.cutoffs.Load()),
		Score:          score,
		Duration:       time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth int, heuristic string)   {}
func (m *dummyCollector) AddNode()                            {}
func (m *dummyCollector) AddLeaf()                            {}
func (m *dummyCollector) AddCutoff()                          {}
func (m *dummyCollector) SetCompletedDepth(depth int)         {}
func (m *dummyCollector) Complete(score float64) SearchMetric { return SearchMetric{} }
