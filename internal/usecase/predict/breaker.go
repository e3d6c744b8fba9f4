package predict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/domain"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	"github.com/kailas-cloud/nersearch/internal/metrics"
)

// BreakerConfig tunes the extractor circuit breaker.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	TripRatio   float64
	MinRequests uint32
}

// BreakerExtractor fails fast while the extractor backend keeps erroring.
type BreakerExtractor struct {
	inner  Extractor
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreakerExtractor wraps inner with a circuit breaker.
func NewBreakerExtractor(inner Extractor, cfg BreakerConfig, logger *zap.Logger) *BreakerExtractor {
	if cfg.Name == "" {
		cfg.Name = "predictor"
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 3
	}
	if cfg.TripRatio <= 0 {
		cfg.TripRatio = 0.6
	}

	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.TripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.PredictorBreakerState.WithLabelValues(name).Set(float64(to))
			if to == gobreaker.StateOpen {
				logger.Error("Circuit breaker opened",
					zap.String("name", name),
					zap.String("from", from.String()),
				)
				return
			}
			logger.Info("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Caller cancellation says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerExtractor{
		inner:  inner,
		cb:     gobreaker.NewCircuitBreaker(st),
		logger: logger,
	}
}

// Extract implements Extractor.
func (b *BreakerExtractor) Extract(ctx context.Context, text string, labels []string) ([]prediction.Entity, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Extract(ctx, text, labels)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", domain.ErrPredictorUnavailable, err)
		}
		return nil, err //nolint:wrapcheck // inner error already wrapped
	}
	return res.([]prediction.Entity), nil
}

// State reports the current breaker state.
func (b *BreakerExtractor) State() gobreaker.State {
	return b.cb.State()
}
