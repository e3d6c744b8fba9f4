package product

import (
	"context"
	"testing"

	"github.com/kailas-cloud/nersearch/internal/db"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn    func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn      func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn    func(ctx context.Context, name string) (bool, error)
	indexDocumentsFn func(ctx context.Context, def *db.IndexDefinition, docs []db.Document) (*db.BulkResult, error)
	searchFn         func(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockStore) IndexDocuments(ctx context.Context, def *db.IndexDefinition, docs []db.Document) (*db.BulkResult, error) {
	if m.indexDocumentsFn != nil {
		return m.indexDocumentsFn(ctx, def, docs)
	}
	return &db.BulkResult{Indexed: len(docs)}, nil
}

func (m *mockStore) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T, s store) *Repo {
	t.Helper()
	r, err := New(s, "products")
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return r
}

func jacket() domprod.Product {
	return domprod.Product{
		Title:       "Packable Rain Jacket",
		ProductType: "jacket",
		Price:       120,
		Colors:      []string{"blue"},
		Attrs:       []string{"packable", "waterproof"},
	}
}
