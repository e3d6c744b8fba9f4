package catalog

import (
	"context"

	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
)

// Repository manages the product index lifecycle.
type Repository interface {
	IndexName() string
	Create(ctx context.Context) error
	Drop(ctx context.Context) error
	Ingest(ctx context.Context, products []domprod.Product) (domprod.IngestStats, error)
}

// Pinger checks document store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
