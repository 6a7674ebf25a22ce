package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search engine and cache Prometheus metrics.
var (
	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)

	EngineErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_errors_total",
			Help:      "Total search engine errors",
		},
		[]string{"op", "kind"}, // unavailable / timeout / rejected / malformed / other
	)

	SkippedHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_hits_total",
			Help:      "Hits dropped by lenient projection",
		},
	)

	FacetCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facet_cache_total",
			Help:      "Facet cache hits, misses and evictions",
		},
		[]string{"result"}, // "hit" / "miss" / "evict"
	)

	SyncEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_events_total",
			Help:      "Index sync events processed",
		},
		[]string{"type", "status"},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers search, cache and sync metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(EngineRequestDuration)
		prometheus.MustRegister(EngineErrorsTotal)
		prometheus.MustRegister(SkippedHitsTotal)
		prometheus.MustRegister(FacetCacheTotal)
		prometheus.MustRegister(SyncEventsTotal)
	})
}
