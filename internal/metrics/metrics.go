// Package metrics instruments the folder tree with Prometheus counters and
// gauges. Every synchronizer read/write acquire and release and every tree
// operation updates these (move-mode acquires are not counted), so a process embedding foldertree can scrape contention
// and throughput without threading extra plumbing through the call sites.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// OperationsTotal counts tree operations by verb and outcome.
	OperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foldertree",
		Name:      "operations_total",
		Help:      "Folder tree operations by verb and result code.",
	}, []string{"op", "result"})

	// ReadersActive is the number of readers currently active across all
	// nodes in the tree.
	ReadersActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "foldertree",
		Name:      "readers_active",
		Help:      "Number of node read-locks currently held.",
	})

	// WritersActive is the number of writers currently active across all
	// nodes in the tree.
	WritersActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "foldertree",
		Name:      "writers_active",
		Help:      "Number of node write-locks currently held.",
	})
)

func init() {
	prometheus.MustRegister(OperationsTotal, ReadersActive, WritersActive)
}

// ObserveOperation increments the operations counter for op/result.
func ObserveOperation(op, result string) {
	OperationsTotal.WithLabelValues(op, result).Inc()
}
