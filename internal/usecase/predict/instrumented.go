package predict

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	"github.com/kailas-cloud/nersearch/internal/metrics"
)

// InstrumentedExtractor records request counts, latency and debug logs.
type InstrumentedExtractor struct {
	inner    Extractor
	provider string
	logger   *zap.Logger
}

// NewInstrumentedExtractor wraps an extractor with observability.
func NewInstrumentedExtractor(inner Extractor, provider string, logger *zap.Logger) *InstrumentedExtractor {
	return &InstrumentedExtractor{inner: inner, provider: provider, logger: logger}
}

// Extract implements Extractor.
func (e *InstrumentedExtractor) Extract(ctx context.Context, text string, labels []string) ([]prediction.Entity, error) {
	start := time.Now()

	entities, err := e.inner.Extract(ctx, text, labels)

	duration := time.Since(start)
	metrics.PredictorRequestDuration.WithLabelValues(e.provider).Observe(duration.Seconds())

	if err != nil {
		metrics.PredictorRequestsTotal.WithLabelValues(e.provider, "error").Inc()
		e.logger.Error("Entity extraction failed",
			zap.String("provider", e.provider),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err //nolint:wrapcheck // decorator is transparent
	}

	metrics.PredictorRequestsTotal.WithLabelValues(e.provider, "success").Inc()
	e.logger.Debug("Entity extraction completed",
		zap.String("provider", e.provider),
		zap.Duration("duration", duration),
		zap.Int("entities", len(entities)),
	)
	return entities, nil
}
