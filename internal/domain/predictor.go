package domain

import (
	"context"

	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
)

// KeyPrefix namespaces every key this service writes to a shared KV store.
const KeyPrefix = "nersearch:"

// Predictor is the shared query-understanding contract between layers.
type Predictor interface {
	Predict(ctx context.Context, text string) (prediction.Prediction, error)
}

// Extractor returns raw labeled spans for text. Backends implement this;
// assembly into a Prediction happens above them.
type Extractor interface {
	Extract(ctx context.Context, text string, labels []string) ([]prediction.Entity, error)
}

// HealthChecker verifies an external dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
