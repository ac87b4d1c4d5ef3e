package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_total",
			Help:      "Total number of fuzzy searches",
		},
		[]string{"kind", "status"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Fuzzy search duration in seconds, store round-trip included",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	searchCandidates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_candidates_total",
			Help:      "Total number of candidates scored",
		},
		[]string{"kind"},
	)

	scriptCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "script_cache_total",
			Help:      "Server-side script invocations by cache outcome (hit, miss)",
		},
		[]string{"result"},
	)
)

// SearchRecorder exports search outcomes as Prometheus metrics.
type SearchRecorder struct{}

// ObserveSearch records one search.
func (SearchRecorder) ObserveSearch(kind, status string, elapsed time.Duration, scanned int) {
	searchTotal.WithLabelValues(kind, status).Inc()
	searchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if scanned > 0 {
		searchCandidates.WithLabelValues(kind).Add(float64(scanned))
	}
}

// ObserveScriptCache counts a script cache outcome. It matches the store's cache hook.
func ObserveScriptCache(result string) {
	scriptCacheTotal.WithLabelValues(result).Inc()
}
