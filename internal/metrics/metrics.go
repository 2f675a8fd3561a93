// Package metrics defines the Prometheus instrumentation for the
// projection engine and its HTTP surface.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Projection, mapping and cache Prometheus metrics.
var (
	ProjectionDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esdex",
			Name:      "projection_documents_total",
			Help:      "Total number of documents projected",
		},
		[]string{"model"},
	)

	ProjectionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "esdex",
			Name:      "projection_duration_seconds",
			Help:      "Document projection duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"model"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esdex",
			Name:      "cache_total",
			Help:      "Cache hits and misses per artifact",
		},
		[]string{"artifact", "result"}, // result: "hit" / "miss"
	)

	IndexingRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esdex",
			Name:      "indexing_records_total",
			Help:      "Total number of records processed by indexing runs",
		},
		[]string{"model", "status"}, // status: "ok" / "failed"
	)

	IndexingChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esdex",
			Name:      "indexing_chunks_total",
			Help:      "Total number of chunks flushed by indexing runs",
		},
		[]string{"model"},
	)

	IndexingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "esdex",
			Name:      "indexing_run_duration_seconds",
			Help:      "Full indexing run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"model"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers the engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ProjectionDocumentsTotal)
	prometheus.MustRegister(ProjectionDuration)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(IndexingRecordsTotal)
	prometheus.MustRegister(IndexingChunksTotal)
	prometheus.MustRegister(IndexingDuration)
	engineMetricsRegistered = true
}
