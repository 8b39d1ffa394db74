package engine

import (
	"chainreaction/experiments/metrics"
	"context"
)

type Engine interface {
	// Run plays a game till there's a winner or the turn limit is reached
	Run(ctx context.Context) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
