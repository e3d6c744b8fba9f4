// Package predict turns free-text queries into entity predictions.
package predict

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/nersearch/internal/domain"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
)

// Service assembles predictions from extractor output.
type Service struct {
	extractor Extractor
	labels    []string
}

// New creates a prediction service. Empty labels fall back to prediction.DefaultLabels.
func New(extractor Extractor, labels []string) *Service {
	if len(labels) == 0 {
		labels = prediction.DefaultLabels
	}
	return &Service{extractor: extractor, labels: labels}
}

// Predict extracts entities from text and folds them into a prediction.
// Blank text yields an empty, invalid prediction without calling the extractor.
func (s *Service) Predict(ctx context.Context, text string) (prediction.Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return prediction.New(text), nil
	}

	entities, err := s.extractor.Extract(ctx, text, s.labels)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, domain.ErrPredictorUnavailable) {
			return prediction.Prediction{}, fmt.Errorf("extract entities: %w", err)
		}
		return prediction.Prediction{}, fmt.Errorf("extract entities: %w: %w", domain.ErrPredictorUnavailable, err)
	}

	return prediction.FromEntities(text, entities), nil
}
