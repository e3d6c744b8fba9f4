package search

import (
	"context"

	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

// Repository runs translated queries against the product index.
type Repository interface {
	Search(ctx context.Context, q query.Bool, size int) ([]domprod.Product, error)
}

// Predictor extracts structured intent from a query.
type Predictor interface {
	Predict(ctx context.Context, text string) (prediction.Prediction, error)
}
