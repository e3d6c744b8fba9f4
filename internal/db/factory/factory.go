// Package factory opens the configured document store driver.
package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/nersearch/internal/config"
	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/db/elastic"
	"github.com/kailas-cloud/nersearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/nersearch/internal/db/redis"
	"github.com/kailas-cloud/nersearch/internal/metrics"
)

// Open creates the document store selected by cfg.Driver. Searches are
// timed into metrics.SearchDuration under the driver label.
func Open(cfg config.DatabaseConfig) (db.Store, error) {
	s, err := open(cfg)
	if err != nil {
		return nil, err
	}
	return &timedStore{Store: s, driver: cfg.Driver}, nil
}

func open(cfg config.DatabaseConfig) (db.Store, error) {
	// Each branch returns a nil interface on error, never a typed nil pointer.
	switch cfg.Driver {
	case config.DriverElastic:
		s, err := elastic.NewStore(elastic.Config{
			Addresses: cfg.Addrs,
			Username:  cfg.Username,
			Password:  cfg.Password,
			BulkSize:  cfg.BulkSize,
		})
		if err != nil {
			return nil, fmt.Errorf("elastic: %w", err)
		}
		return s, nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		return s, nil
	case config.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

type timedStore struct {
	db.Store
	driver string
}

func (t *timedStore) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues(t.driver).Observe(time.Since(start).Seconds())
	}()
	return t.Store.Search(ctx, req)
}
