package nersearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/nersearch/internal/config"
	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/db/factory"
	"github.com/kailas-cloud/nersearch/internal/domain"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
	productrepo "github.com/kailas-cloud/nersearch/internal/repository/product"
	"github.com/kailas-cloud/nersearch/internal/transport/ner"
	healthuc "github.com/kailas-cloud/nersearch/internal/usecase/health"
	predictuc "github.com/kailas-cloud/nersearch/internal/usecase/predict"
	searchuc "github.com/kailas-cloud/nersearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped in tests.
type catalogRepo interface {
	Create(ctx context.Context) error
	Drop(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
	Ingest(ctx context.Context, products []domprod.Product) (domprod.IngestStats, error)
}

type searchUseCase interface {
	Search(ctx context.Context, text string, size int) (searchuc.Response, error)
	Predict(ctx context.Context, text string) (prediction.Prediction, error)
}

// Client is the nersearch SDK entry point.
type Client struct {
	store     db.Store
	catalog   catalogRepo
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and waits for the document store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("nersearch: document store required (use WithElastic, WithRedis or WithMemory)")
	}
	if cfg.driver != config.DriverMemory && len(cfg.addrs) == 0 {
		return nil, fmt.Errorf("nersearch: address required for driver %q", cfg.driver)
	}

	ext, err := buildExtractor(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := factory.Open(config.DatabaseConfig{
		Driver:   cfg.driver,
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("nersearch: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("nersearch: document store not ready: %w", err)
	}

	return wireClient(store, cfg, ext, obs)
}

func buildExtractor(cfg *clientConfig) (predictuc.Extractor, error) {
	switch {
	case cfg.extractor != nil:
		return &extractorAdapter{inner: cfg.extractor}, nil
	case cfg.nerEndpoint != "":
		c, err := ner.New(ner.Config{Endpoint: cfg.nerEndpoint, APIKey: cfg.nerAPIKey})
		if err != nil {
			return nil, fmt.Errorf("nersearch: %w", err)
		}
		return c, nil
	default:
		return noopExtractor{}, nil
	}
}

func wireClient(store db.Store, cfg *clientConfig, ext predictuc.Extractor, obs *observer) (*Client, error) {
	repo, err := productrepo.New(store, cfg.index)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("nersearch: %w", err)
	}

	var checker healthuc.PredictorChecker
	if hc, ok := ext.(domain.HealthChecker); ok {
		checker = hc
	}

	return &Client{
		store:     store,
		catalog:   repo,
		searchSvc: searchuc.New(repo, predictuc.New(ext, cfg.labels)),
		healthSvc: healthuc.New(store, repo, checker),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks document store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// CreateIndex creates the product index. Returns ErrAlreadyExists if present.
func (c *Client) CreateIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("create_index", start, err) }()
	return c.catalog.Create(ctx)
}

// DropIndex deletes the product index. Returns ErrNotFound if absent.
func (c *Client) DropIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("drop_index", start, err) }()
	return c.catalog.Drop(ctx)
}

// IndexExists reports whether the product index exists.
func (c *Client) IndexExists(ctx context.Context) (ok bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("index_exists", start, err) }()
	return c.catalog.Exists(ctx)
}

// Ingest writes products with create-only semantics: a product whose
// title and type are already indexed is skipped, never overwritten.
func (c *Client) Ingest(ctx context.Context, products []Product) (stats IngestStats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest", start, err) }()

	if len(products) == 0 {
		return IngestStats{}, nil
	}
	dom := make([]domprod.Product, len(products))
	for i, p := range products {
		dom[i] = productToDomain(p)
	}

	s, err := c.catalog.Ingest(ctx, dom)
	if err != nil {
		return IngestStats{}, err
	}
	return IngestStats{Indexed: s.Indexed, Skipped: s.Skipped, Failed: s.Failed}, nil
}

// Search predicts intent for text and returns up to size products.
// size <= 0 means one result.
func (c *Client) Search(ctx context.Context, text string, size int) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return SearchResult{}, fmt.Errorf("%w: empty text", ErrInvalidQuery)
	}
	if size <= 0 {
		size = 1
	}

	resp, err := c.searchSvc.Search(ctx, text, size)
	if err != nil {
		return SearchResult{}, err
	}

	products := make([]Product, len(resp.Products))
	for i, p := range resp.Products {
		products[i] = productFromDomain(p)
	}
	return SearchResult{
		Prediction: predictionFromDomain(&resp.Prediction),
		Products:   products,
	}, nil
}

// Predict returns the extracted intent for text without searching.
func (c *Client) Predict(ctx context.Context, text string) (res Prediction, err error) {
	start := time.Now()
	defer func() { c.obs.observe("predict", start, err) }()

	p, err := c.searchSvc.Predict(ctx, text)
	if err != nil {
		return Prediction{}, err
	}
	return predictionFromDomain(&p), nil
}
