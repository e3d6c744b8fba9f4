package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

func testIndex() *db.IndexDefinition {
	return db.NewIndex("products").
		Text("title", "all").
		Text("product_type", "all").
		Keyword("colors", "all").
		Keyword("attrs", "all").
		Numeric("price").
		Text("all").
		MustBuild()
}

func f64(v float64) *float64 { return &v }

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	ctx := context.Background()
	if err := s.CreateIndex(ctx, testIndex()); err != nil {
		t.Fatalf("create: %v", err)
	}
	docs := []db.Document{
		{ID: "1", Source: json.RawMessage(`{"title":"Packable Rain Jacket","product_type":"jacket","price":120,"colors":["blue"],"attrs":["packable","waterproof"]}`)},
		{ID: "2", Source: json.RawMessage(`{"title":"Insulated Jacket","product_type":"jacket","price":240,"colors":["black"],"attrs":["warm"]}`)},
		{ID: "3", Source: json.RawMessage(`{"title":"Trail Jacket","product_type":"jacket","price":90,"colors":["blue","red"],"attrs":["lightweight"]}`)},
		{ID: "4", Source: json.RawMessage(`{"title":"Dome Tent","product_type":"tent","price":300,"colors":["green"],"attrs":["packable"]}`)},
	}
	res, err := s.IndexDocuments(ctx, testIndex(), docs)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if res.Indexed != 4 {
		t.Fatalf("indexed = %d, want 4", res.Indexed)
	}
	return s
}

func search(t *testing.T, s *Store, q query.Bool, size int) []db.Hit {
	t.Helper()
	res, err := s.Search(context.Background(), &db.SearchRequest{Index: testIndex(), Query: q, Size: size})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	return res.Hits
}

func ids(hits []db.Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.ID
	}
	return out
}

func TestIndexLifecycle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.CreateIndex(ctx, testIndex()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateIndex(ctx, testIndex()); !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
	ok, _ := s.IndexExists(ctx, "products")
	if !ok {
		t.Error("expected index to exist")
	}
	if err := s.DropIndex(ctx, testIndex()); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := s.DropIndex(ctx, testIndex()); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexDocuments_CreateOnly(t *testing.T) {
	s := seeded(t)
	res, err := s.IndexDocuments(context.Background(), testIndex(), []db.Document{
		{ID: "1", Source: json.RawMessage(`{"title":"Overwritten","product_type":"x","price":1}`)},
		{ID: "5", Source: json.RawMessage(`{"title":"Bad","price":"free"}`)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Skipped != 1 || res.Failed != 1 || res.Indexed != 0 {
		t.Errorf("result = %+v", res)
	}

	hits := search(t, s, query.NewBool([]query.Clause{query.Match("title", "packable")}, nil), 5)
	if len(hits) != 1 || hits[0].ID != "1" {
		t.Errorf("original document should be unchanged, hits = %v", ids(hits))
	}
}

func TestIndexDocuments_MissingIndex(t *testing.T) {
	_, err := NewStore().IndexDocuments(context.Background(), testIndex(), []db.Document{{ID: "1", Source: json.RawMessage(`{}`)}})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearch_MatchAndFilters(t *testing.T) {
	s := seeded(t)

	tests := []struct {
		name string
		q    query.Bool
		want []string
	}{
		{
			"title only",
			query.NewBool([]query.Clause{query.Match("title", "jacket")}, nil),
			[]string{"1", "2", "3"},
		},
		{
			"color filter",
			query.NewBool([]query.Clause{query.Match("title", "jacket"), query.Terms("colors", "blue")}, nil),
			[]string{"1", "3"},
		},
		{
			"any of colors",
			query.NewBool([]query.Clause{query.Match("title", "jacket"), query.Terms("colors", "red", "black")}, nil),
			[]string{"2", "3"},
		},
		{
			"upper bound",
			query.NewBool([]query.Clause{query.Match("title", "jacket"), query.Range("price", nil, f64(100))}, nil),
			[]string{"3"},
		},
		{
			"inclusive range",
			query.NewBool([]query.Clause{query.Match("title", "jacket"), query.Range("price", f64(90), f64(120))}, nil),
			[]string{"1", "3"},
		},
		{
			"inverted range matches nothing",
			query.NewBool([]query.Clause{query.Match("title", "jacket"), query.Range("price", f64(200), f64(100))}, nil),
			[]string{},
		},
		{
			"should boosts via copy target",
			query.NewBool(
				[]query.Clause{query.Match("title", "jacket")},
				[]query.Clause{query.Match("all", "waterproof")},
			),
			[]string{"1", "2", "3"},
		},
		{
			"keyword is exact",
			query.NewBool([]query.Clause{query.Match("title", "jacket"), query.Terms("colors", "Blue")}, nil),
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(search(t, s, tt.q, 10))
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSearch_ShouldOnlyAffectsOrder(t *testing.T) {
	s := seeded(t)
	q := query.NewBool(
		[]query.Clause{query.Match("title", "jacket")},
		[]query.Clause{query.Match("all", "lightweight")},
	)
	hits := search(t, s, q, 1)
	if len(hits) != 1 || hits[0].ID != "3" {
		t.Errorf("top hit = %v, want 3", ids(hits))
	}
}

func TestSearch_CopyTargetNotReturned(t *testing.T) {
	s := seeded(t)
	hits := search(t, s, query.NewBool([]query.Clause{query.Match("title", "tent")}, nil), 1)
	if len(hits) != 1 {
		t.Fatalf("hits = %v", ids(hits))
	}
	var src map[string]any
	if err := json.Unmarshal(hits[0].Source, &src); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := src["all"]; ok {
		t.Error("copy target leaked into source")
	}
	if src["title"] != "Dome Tent" {
		t.Errorf("title = %v", src["title"])
	}
}

func TestSearch_SizeAndTotal(t *testing.T) {
	s := seeded(t)
	res, err := s.Search(context.Background(), &db.SearchRequest{
		Index: testIndex(),
		Query: query.NewBool([]query.Clause{query.Match("title", "jacket")}, nil),
		Size:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 || len(res.Hits) != 2 {
		t.Errorf("total = %d, hits = %d", res.Total, len(res.Hits))
	}
}

func TestSearch_IndexNotFound(t *testing.T) {
	_, err := NewStore().Search(context.Background(), &db.SearchRequest{Index: testIndex(), Size: 1})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestKV_TTL(t *testing.T) {
	s := NewStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.kv.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := s.Get(ctx, "k")
	if err != nil || string(v) != "v" {
		t.Fatalf("get = %q, %v", v, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected expiry, got %v", err)
	}
}

func TestKV_NoTTL(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	v, err := s.Get(ctx, "k")
	if err != nil || string(v) != "v" {
		t.Errorf("get = %q, %v", v, err)
	}
}
