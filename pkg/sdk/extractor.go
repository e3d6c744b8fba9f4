package nersearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/nersearch/internal/domain"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
)

// Extractor finds labeled spans in query text.
// Required for Search and Predict; index management works without it.
type Extractor interface {
	Extract(ctx context.Context, text string, labels []string) ([]Entity, error)
}

// extractorAdapter wraps a public Extractor to satisfy the internal contract.
type extractorAdapter struct {
	inner Extractor
}

func (a *extractorAdapter) Extract(ctx context.Context, text string, labels []string) ([]prediction.Entity, error) {
	ents, err := a.inner.Extract(ctx, text, labels)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	out := make([]prediction.Entity, len(ents))
	for i, e := range ents {
		out[i] = prediction.Entity{Text: e.Text, Label: e.Label, Score: e.Score}
	}
	return out, nil
}

// noopExtractor fails every call (used when no extractor is configured).
type noopExtractor struct{}

func (noopExtractor) Extract(context.Context, string, []string) ([]prediction.Entity, error) {
	return nil, fmt.Errorf("%w: %w", domain.ErrPredictorUnavailable,
		errors.New("nersearch: extractor not configured (use WithNER or WithExtractor)"))
}
