package catalog

import (
	"context"

	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
)

type mockRepo struct {
	createFn func(ctx context.Context) error
	dropFn   func(ctx context.Context) error
	ingestFn func(ctx context.Context, products []domprod.Product) (domprod.IngestStats, error)
	calls    []string
	ingested []domprod.Product
}

func (m *mockRepo) IndexName() string { return "products" }

func (m *mockRepo) Create(ctx context.Context) error {
	m.calls = append(m.calls, "create")
	if m.createFn != nil {
		return m.createFn(ctx)
	}
	return nil
}

func (m *mockRepo) Drop(ctx context.Context) error {
	m.calls = append(m.calls, "drop")
	if m.dropFn != nil {
		return m.dropFn(ctx)
	}
	return nil
}

func (m *mockRepo) Ingest(ctx context.Context, products []domprod.Product) (domprod.IngestStats, error) {
	m.calls = append(m.calls, "ingest")
	m.ingested = products
	if m.ingestFn != nil {
		return m.ingestFn(ctx, products)
	}
	return domprod.IngestStats{Indexed: len(products)}, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }
