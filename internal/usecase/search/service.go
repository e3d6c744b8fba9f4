// Package search answers free-text product queries.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
	"github.com/kailas-cloud/nersearch/internal/logger"
	"github.com/kailas-cloud/nersearch/internal/metrics"
)

// Response pairs the extracted intent with the matching products.
type Response struct {
	Prediction prediction.Prediction `json:"prediction"`
	Products   []domprod.Product     `json:"results"`
}

// Service handles product search driven by entity prediction.
type Service struct {
	repo      Repository
	predictor Predictor
}

// New creates a search service.
func New(repo Repository, predictor Predictor) *Service {
	return &Service{repo: repo, predictor: predictor}
}

// Search predicts intent for text and returns up to size matching products.
// A prediction without a product yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, text string, size int) (Response, error) {
	p, err := s.predictor.Predict(ctx, text)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return Response{}, fmt.Errorf("predict: %w", err)
	}

	resp := Response{Prediction: p, Products: []domprod.Product{}}
	if !p.IsValid() {
		metrics.SearchRequestsTotal.WithLabelValues("no_product").Inc()
		return resp, nil
	}

	q := Translate(p)
	logger.FromContext(ctx).Debug("Translated query",
		zap.String("text", text),
		zap.Stringer("query", q),
		zap.Int("size", size),
	)

	products, err := s.repo.Search(ctx, q, size)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return Response{}, fmt.Errorf("search products: %w", err)
	}

	if len(products) == 0 {
		metrics.SearchRequestsTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.SearchRequestsTotal.WithLabelValues("hit").Inc()
		resp.Products = products
	}
	return resp, nil
}

// Predict exposes the raw prediction for a query.
func (s *Service) Predict(ctx context.Context, text string) (prediction.Prediction, error) {
	p, err := s.predictor.Predict(ctx, text)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("predict: %w", err)
	}
	return p, nil
}
