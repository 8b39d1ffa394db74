package searcher

import (
	"chainreaction/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchLatency measures one call to Search or Deepen.
	// Labels: heuristic
	searchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainreaction",
		Subsystem: "search",
		Name:      "latency_seconds",
		Help:      "Search latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"heuristic"})

	searchNodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainreaction",
		Subsystem: "search",
		Name:      "nodes_total",
		Help:      "Total game tree nodes visited",
	}, []string{"heuristic"})

	searchCutoffs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainreaction",
		Subsystem: "search",
		Name:      "cutoffs_total",
		Help:      "Total alpha-beta cutoffs",
	}, []string{"heuristic"})

	// searchDepth tracks the deepest completed iteration per search.
	searchDepth = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainreaction",
		Subsystem: "search",
		Name:      "completed_depth",
		Help:      "Deepest fully searched depth",
		Buckets:   prometheus.LinearBuckets(1, 1, 8),
	}, []string{"heuristic"})
)

func recordSearch(metric metrics.SearchMetric) {
	searchLatency.WithLabelValues(metric.Heuristic).Observe(metric.Duration.Seconds())
	searchNodes.WithLabelValues(metric.Heuristic).Add(float64(metric.Nodes))
	searchCutoffs.WithLabelValues(metric.Heuristic).Add(float64(metric.Cutoffs))
	searchDepth.WithLabelValues(metric.Heuristic).Observe(float64(metric.CompletedDepth))
}
