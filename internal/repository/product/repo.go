package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

// store is the consumer interface for the product catalog (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexDocuments(ctx context.Context, def *db.IndexDefinition, docs []db.Document) (*db.BulkResult, error)
	Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error)
}

// Repo implements the catalog and search repositories over a document store.
type Repo struct {
	store store
	index *db.IndexDefinition
}

// New creates a product repository bound to the named index.
func New(s store, indexName string) (*Repo, error) {
	def, err := ProductIndex(indexName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	return &Repo{store: s, index: def}, nil
}

// IndexName returns the bound index name.
func (r *Repo) IndexName() string { return r.index.Name }

// Create creates the index. An existing index yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context) error {
	if err := r.store.CreateIndex(ctx, r.index); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("create index %s: %w", r.index.Name, err)
	}
	return nil
}

// Drop deletes the index and its documents. A missing index yields domain.ErrNotFound.
func (r *Repo) Drop(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.index); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("drop index %s: %w", r.index.Name, err)
	}
	return nil
}

// Exists reports whether the index exists.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.index.Name)
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", r.index.Name, err)
	}
	return ok, nil
}

// Ingest writes products with create-only semantics. Every record is
// validated before anything is written. Duplicates within the batch and
// products already stored are counted as skipped.
func (r *Repo) Ingest(ctx context.Context, products []domprod.Product) (domprod.IngestStats, error) {
	for i := range products {
		if err := products[i].Validate(); err != nil {
			return domprod.IngestStats{}, domain.NewProductError(i, err.Error())
		}
	}

	var stats domprod.IngestStats
	seen := make(map[string]struct{}, len(products))
	docs := make([]db.Document, 0, len(products))
	for _, p := range products {
		doc, err := toDocument(p)
		if err != nil {
			return domprod.IngestStats{}, err
		}
		if _, dup := seen[doc.ID]; dup {
			stats.Skipped++
			continue
		}
		seen[doc.ID] = struct{}{}
		docs = append(docs, doc)
	}

	res, err := r.store.IndexDocuments(ctx, r.index, docs)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return stats, domain.ErrNotFound
		}
		return stats, fmt.Errorf("index documents: %w", err)
	}

	stats.Indexed += res.Indexed
	stats.Skipped += res.Skipped
	stats.Failed += res.Failed
	return stats, nil
}

// Search runs q and returns up to size products, best match first.
func (r *Repo) Search(ctx context.Context, q query.Bool, size int) ([]domprod.Product, error) {
	res, err := r.store.Search(ctx, &db.SearchRequest{Index: r.index, Query: q, Size: size})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("search %s: %w", r.index.Name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("search %s: %w", r.index.Name, err)
	}

	out := make([]domprod.Product, 0, len(res.Hits))
	for _, h := range res.Hits {
		p, err := fromHit(h)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
