package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and catalog Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nersearch",
			Name:      "search_requests_total",
			Help:      "Search requests by outcome",
		},
		[]string{"outcome"}, // "hit" / "empty" / "no_product" / "error"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nersearch",
			Name:      "store_search_duration_seconds",
			Help:      "Document store query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"driver"},
	)

	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nersearch",
			Name:      "ingest_documents_total",
			Help:      "Documents processed by catalog ingest",
		},
		[]string{"result"}, // "indexed" / "skipped" / "failed"
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers search metrics on the default registry.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal, SearchDuration, IngestDocumentsTotal)
	})
}
