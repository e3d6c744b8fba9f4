package product

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/db/memory"
	"github.com/kailas-cloud/nersearch/internal/domain"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

func TestProductIndex(t *testing.T) {
	def, err := ProductIndex("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != DefaultIndexName {
		t.Errorf("name = %q", def.Name)
	}

	want := map[string]db.IndexFieldType{
		"title":        db.IndexFieldText,
		"product_type": db.IndexFieldText,
		"colors":       db.IndexFieldKeyword,
		"attrs":        db.IndexFieldKeyword,
		"price":        db.IndexFieldNumeric,
		"all":          db.IndexFieldText,
	}
	for name, typ := range want {
		f, ok := def.Field(name)
		if !ok {
			t.Fatalf("missing field %s", name)
		}
		if f.Type != typ {
			t.Errorf("%s type = %v, want %v", name, f.Type, typ)
		}
	}

	sources := def.CopySources("all")
	if len(sources) != 4 {
		t.Errorf("all has %d sources, want 4", len(sources))
	}
	price, _ := def.Field("price")
	if len(price.CopyTo) != 0 {
		t.Error("price must not be copied into all")
	}
}

func TestNew_InvalidIndexName(t *testing.T) {
	_, err := New(&mockStore{}, "bad name")
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestCreate_MapsExists(t *testing.T) {
	r := newTestRepo(t, &mockStore{
		createIndexFn: func(context.Context, *db.IndexDefinition) error { return db.ErrIndexExists },
	})
	if err := r.Create(context.Background()); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_PropagatesStoreError(t *testing.T) {
	storeErr := &db.Error{Op: db.OpCreateIndex, Err: errors.New("connection refused")}
	r := newTestRepo(t, &mockStore{
		createIndexFn: func(context.Context, *db.IndexDefinition) error { return storeErr },
	})
	err := r.Create(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestDrop_MapsNotFound(t *testing.T) {
	r := newTestRepo(t, &mockStore{
		dropIndexFn: func(context.Context, *db.IndexDefinition) error { return db.ErrIndexNotFound },
	})
	if err := r.Drop(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIngest_ValidatesBeforeWriting(t *testing.T) {
	called := false
	r := newTestRepo(t, &mockStore{
		indexDocumentsFn: func(context.Context, *db.IndexDefinition, []db.Document) (*db.BulkResult, error) {
			called = true
			return &db.BulkResult{}, nil
		},
	})

	bad := jacket()
	bad.Price = -5
	_, err := r.Ingest(context.Background(), []domprod.Product{jacket(), bad})
	if !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
	var pe *domain.ProductError
	if !errors.As(err, &pe) || pe.Index != 1 {
		t.Errorf("expected record index 1, got %v", err)
	}
	if called {
		t.Error("nothing should be written when validation fails")
	}
}

func TestIngest_DocumentShape(t *testing.T) {
	var docs []db.Document
	r := newTestRepo(t, &mockStore{
		indexDocumentsFn: func(_ context.Context, _ *db.IndexDefinition, d []db.Document) (*db.BulkResult, error) {
			docs = d
			return &db.BulkResult{Indexed: len(d)}, nil
		},
	})

	p := jacket()
	p.Attrs = nil
	stats, err := r.Ingest(context.Background(), []domprod.Product{p, p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Indexed != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(docs) != 1 || docs[0].ID != p.ID() {
		t.Fatalf("docs = %+v", docs)
	}

	var src map[string]any
	if err := json.Unmarshal(docs[0].Source, &src); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := src["all"]; ok {
		t.Error("catch-all field must not be written")
	}
	if attrs, ok := src["attrs"].([]any); !ok || len(attrs) != 0 {
		t.Errorf("attrs = %v, want empty array", src["attrs"])
	}
}

func TestIngest_MissingIndex(t *testing.T) {
	r := newTestRepo(t, &mockStore{
		indexDocumentsFn: func(context.Context, *db.IndexDefinition, []db.Document) (*db.BulkResult, error) {
			return nil, db.ErrIndexNotFound
		},
	})
	_, err := r.Ingest(context.Background(), []domprod.Product{jacket()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearch_PassesQueryAndSize(t *testing.T) {
	var req *db.SearchRequest
	r := newTestRepo(t, &mockStore{
		searchFn: func(_ context.Context, rq *db.SearchRequest) (*db.SearchResult, error) {
			req = rq
			return &db.SearchResult{Total: 1, Hits: []db.Hit{
				{ID: "x", Score: 1, Source: json.RawMessage(`{"title":"Rain Jacket","product_type":"jacket","price":99}`)},
			}}, nil
		},
	})

	q := query.NewBool([]query.Clause{query.Match("title", "jacket")}, nil)
	got, err := r.Search(context.Background(), q, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Size != 3 || req.Index.Name != "products" || req.Query.String() != q.String() {
		t.Errorf("request = %+v", req)
	}
	if len(got) != 1 || got[0].Title != "Rain Jacket" || got[0].Price != 99 {
		t.Fatalf("products = %+v", got)
	}
	if got[0].Colors == nil || got[0].Attrs == nil {
		t.Error("expected normalized empty slices")
	}
}

func TestSearch_StoreError(t *testing.T) {
	r := newTestRepo(t, &mockStore{
		searchFn: func(context.Context, *db.SearchRequest) (*db.SearchResult, error) {
			return nil, &db.Error{Op: db.OpSearch, Err: errors.New("boom")}
		},
	})
	if _, err := r.Search(context.Background(), query.Bool{}, 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestRoundTrip_MemoryStore(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, memory.NewStore())

	if err := r.Create(ctx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := r.Create(ctx); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("second create: %v", err)
	}

	stats, err := r.Ingest(ctx, []domprod.Product{jacket()})
	if err != nil || stats.Indexed != 1 {
		t.Fatalf("ingest = %+v, %v", stats, err)
	}
	stats, err = r.Ingest(ctx, []domprod.Product{jacket()})
	if err != nil || stats.Skipped != 1 || stats.Indexed != 0 {
		t.Fatalf("re-ingest = %+v, %v", stats, err)
	}

	got, err := r.Search(ctx, query.NewBool(
		[]query.Clause{query.Match("title", "jacket")},
		[]query.Clause{query.Match("all", "waterproof")},
	), 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Packable Rain Jacket" {
		t.Fatalf("products = %+v", got)
	}

	if err := r.Drop(ctx); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := r.Drop(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second drop: %v", err)
	}
}

func TestRoundTrip_MixedCaseColorsMatchPrediction(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, memory.NewStore())
	if err := r.Create(ctx); err != nil {
		t.Fatalf("create: %v", err)
	}

	p := jacket()
	p.Colors = []string{"Blue"}
	if _, err := r.Ingest(ctx, []domprod.Product{p}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	got, err := r.Search(ctx, query.NewBool(
		[]query.Clause{query.Match("title", "jacket"), query.Terms("colors", "blue")},
		nil,
	), 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || len(got[0].Colors) != 1 || got[0].Colors[0] != "blue" {
		t.Fatalf("products = %+v", got)
	}
}
