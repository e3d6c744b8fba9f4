package predict

import (
	"context"

	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
)

// Extractor labels spans of a query. Implemented by transport/ner and
// transport/openai, and by the decorators in this package.
type Extractor interface {
	Extract(ctx context.Context, text string, labels []string) ([]prediction.Entity, error)
}
