package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Predictor Prometheus metrics.
var (
	PredictorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nersearch",
			Name:      "predictor_requests_total",
			Help:      "Total number of entity prediction requests",
		},
		[]string{"provider", "status"},
	)

	PredictorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nersearch",
			Name:      "predictor_request_duration_seconds",
			Help:      "Entity prediction duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	PredictorTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nersearch",
			Name:      "predictor_tokens_total",
			Help:      "Total LLM tokens consumed by entity extraction",
		},
		[]string{"model", "type"},
	)

	PredictorCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nersearch",
			Name:      "predictor_cache_total",
			Help:      "Prediction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	PredictorBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "nersearch",
			Name:      "predictor_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

var registerPredictorOnce sync.Once

// RegisterPredictorMetrics registers predictor metrics on the default registry.
// Safe to call more than once.
func RegisterPredictorMetrics() {
	registerPredictorOnce.Do(func() {
		prometheus.MustRegister(
			PredictorRequestsTotal,
			PredictorRequestDuration,
			PredictorTokensTotal,
			PredictorCacheTotal,
			PredictorBreakerState,
		)
	})
}
