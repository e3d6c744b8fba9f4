// Package catalog manages the product index lifecycle: create, drop, ingest, reset.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/domain"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
	"github.com/kailas-cloud/nersearch/internal/metrics"
)

// Service runs index lifecycle operations.
type Service struct {
	repo   Repository
	pinger Pinger
	logger *zap.Logger
}

// New creates a catalog service.
func New(repo Repository, pinger Pinger, logger *zap.Logger) *Service {
	return &Service{repo: repo, pinger: pinger, logger: logger}
}

// Ping reports whether the document store is reachable.
func (s *Service) Ping(ctx context.Context) bool {
	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Debug("Document store ping failed", zap.Error(err))
		return false
	}
	return true
}

// Create creates the product index. An existing index is logged and left untouched.
func (s *Service) Create(ctx context.Context) error {
	err := s.repo.Create(ctx)
	switch {
	case err == nil:
		s.logger.Info("Index created", zap.String("index", s.repo.IndexName()))
		return nil
	case errors.Is(err, domain.ErrAlreadyExists):
		s.logger.Error("Index already exists", zap.String("index", s.repo.IndexName()))
		return nil
	default:
		return fmt.Errorf("create index: %w", err)
	}
}

// Drop deletes the product index. A missing index is logged and ignored.
func (s *Service) Drop(ctx context.Context) error {
	err := s.repo.Drop(ctx)
	switch {
	case err == nil:
		s.logger.Info("Index dropped", zap.String("index", s.repo.IndexName()))
		return nil
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Error("Index does not exist", zap.String("index", s.repo.IndexName()))
		return nil
	default:
		return fmt.Errorf("drop index: %w", err)
	}
}

// Ingest loads products from r and writes them with create-only semantics.
func (s *Service) Ingest(ctx context.Context, r io.Reader) (domprod.IngestStats, error) {
	products, err := LoadProducts(r)
	if err != nil {
		return domprod.IngestStats{}, err
	}
	return s.ingest(ctx, products)
}

// IngestFile loads products from path and ingests them.
func (s *Service) IngestFile(ctx context.Context, path string) (domprod.IngestStats, error) {
	products, err := LoadFile(path)
	if err != nil {
		return domprod.IngestStats{}, err
	}
	s.logger.Info("Loaded products", zap.String("file", path), zap.Int("count", len(products)))
	return s.ingest(ctx, products)
}

// Reset drops, recreates and reloads the index from path.
func (s *Service) Reset(ctx context.Context, path string) (domprod.IngestStats, error) {
	if err := s.Drop(ctx); err != nil {
		return domprod.IngestStats{}, err
	}
	if err := s.Create(ctx); err != nil {
		return domprod.IngestStats{}, err
	}
	return s.IngestFile(ctx, path)
}

func (s *Service) ingest(ctx context.Context, products []domprod.Product) (domprod.IngestStats, error) {
	if len(products) == 0 {
		s.logger.Warn("Nothing to ingest", zap.String("index", s.repo.IndexName()))
		return domprod.IngestStats{}, nil
	}

	stats, err := s.repo.Ingest(ctx, products)
	if err != nil {
		return stats, fmt.Errorf("ingest: %w", err)
	}

	metrics.IngestDocumentsTotal.WithLabelValues("indexed").Add(float64(stats.Indexed))
	metrics.IngestDocumentsTotal.WithLabelValues("skipped").Add(float64(stats.Skipped))
	metrics.IngestDocumentsTotal.WithLabelValues("failed").Add(float64(stats.Failed))

	s.logger.Info("Ingest completed",
		zap.String("index", s.repo.IndexName()),
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
