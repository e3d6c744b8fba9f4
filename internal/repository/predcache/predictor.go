package predcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
)

var cacheKeyPrefix = domain.KeyPrefix + "pred_cache:"

// store is the consumer interface for the prediction cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedPredictor caches predictions in a key-value store.
type CachedPredictor struct {
	inner      domain.Predictor
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Predictor,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedPredictor {
	return &CachedPredictor{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Predict returns a cached prediction or calls the inner predictor.
// Cache failures never fail the request.
func (c *CachedPredictor) Predict(ctx context.Context, text string) (prediction.Prediction, error) {
	key := c.cacheKey(text)

	if p, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		p.Text = text
		return p, nil
	}

	c.incCache("miss")

	p, err := c.inner.Predict(ctx, text)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("predict: %w", err)
	}

	c.putToCache(ctx, key, p)
	return p, nil
}

func (c *CachedPredictor) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the query with surrounding whitespace and case removed.
func (c *CachedPredictor) cacheKey(text string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedPredictor) getFromCache(ctx context.Context, key string) (prediction.Prediction, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached prediction", zap.String("key", key), zap.Error(err))
		}
		return prediction.Prediction{}, false
	}
	if len(data) == 0 {
		return prediction.Prediction{}, false
	}

	p := prediction.New("")
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("Failed to parse cached prediction", zap.String("key", key), zap.Error(err))
		return prediction.Prediction{}, false
	}
	return p, true
}

func (c *CachedPredictor) putToCache(ctx context.Context, key string, p prediction.Prediction) {
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn("Failed to encode prediction", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache prediction", zap.String("key", key), zap.Error(err))
	}
}
