package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/config"
	"github.com/kailas-cloud/nersearch/internal/db/factory"
	dbRedis "github.com/kailas-cloud/nersearch/internal/db/redis"
	"github.com/kailas-cloud/nersearch/internal/domain"
	logpkg "github.com/kailas-cloud/nersearch/internal/logger"
	"github.com/kailas-cloud/nersearch/internal/metrics"
	"github.com/kailas-cloud/nersearch/internal/repository/predcache"
	productrepo "github.com/kailas-cloud/nersearch/internal/repository/product"
	chiTransport "github.com/kailas-cloud/nersearch/internal/transport/chi"
	"github.com/kailas-cloud/nersearch/internal/transport/ner"
	openaiExt "github.com/kailas-cloud/nersearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/nersearch/internal/usecase/health"
	predictuc "github.com/kailas-cloud/nersearch/internal/usecase/predict"
	searchuc "github.com/kailas-cloud/nersearch/internal/usecase/search"
	"github.com/kailas-cloud/nersearch/internal/version"
)

// backend is an extractor that can also report its own health.
type backend interface {
	predictuc.Extractor
	healthuc.PredictorChecker
}

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nersearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("predictor", cfg.Predictor.Provider),
	)

	store, err := factory.Open(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Registered explicitly, no init()
	metrics.RegisterPredictorMetrics()
	metrics.RegisterSearchMetrics()

	base, err := buildBackend(&cfg.Predictor, logger)
	if err != nil {
		logger.Fatal("Failed to create predictor", zap.Error(err))
	}

	predictor, closeCache := buildPredictor(&cfg, base, logger)
	defer closeCache()

	repo, err := productrepo.New(store, cfg.Search.Index)
	if err != nil {
		logger.Fatal("Invalid product index", zap.Error(err))
	}

	searchSvc := searchuc.New(repo, predictor)
	healthSvc := healthuc.New(store, repo, base)

	server := chiTransport.NewServer(searchSvc, healthSvc, chiTransport.SizeLimits{
		Default: cfg.Search.TopK,
		Max:     cfg.Search.MaxTopK,
	}, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildBackend creates the raw extraction client for the configured provider.
func buildBackend(cfg *config.PredictorConfig, logger *zap.Logger) (backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaiExt.NewExtractor(&openaiExt.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.Endpoint,
			Model:   cfg.Model,
			Logger:  logger,
		}), nil
	case config.ProviderNER:
		c, err := ner.New(ner.Config{
			Endpoint:  cfg.Endpoint,
			APIKey:    cfg.APIKey,
			Threshold: cfg.Threshold,
			Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("ner: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown predictor provider %q", cfg.Provider)
	}
}

// buildPredictor assembles the decorator chain:
// backend -> Instrumented -> Breaker -> Service -> Cached.
// The returned func releases the cache connection.
func buildPredictor(cfg *config.Config, base backend, logger *zap.Logger) (domain.Predictor, func()) {
	var ext predictuc.Extractor = predictuc.NewInstrumentedExtractor(base, cfg.Predictor.Provider, logger)

	if cb := cfg.Predictor.CircuitBreaker; cb.Enabled {
		ext = predictuc.NewBreakerExtractor(ext, predictuc.BreakerConfig{
			Name:        cfg.Predictor.Provider,
			MaxRequests: cb.MaxRequests,
			Interval:    time.Duration(cb.IntervalSec) * time.Second,
			Timeout:     time.Duration(cb.TimeoutSec) * time.Second,
			TripRatio:   cb.TripRatio,
		}, logger)
	}

	var predictor domain.Predictor = predictuc.New(ext, cfg.Predictor.Labels)

	if !cfg.Cache.Enabled {
		return predictor, func() {}
	}

	cache, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		// The cache is optional; serve uncached rather than refuse to start.
		logger.Warn("Prediction cache disabled", zap.Error(err))
		return predictor, func() {}
	}

	logger.Info("Prediction cache enabled",
		zap.Strings("addrs", cfg.Cache.Addrs),
		zap.Int("ttl_sec", cfg.Cache.TTLSec),
	)
	cached := predcache.New(predictor, cache, time.Duration(cfg.Cache.TTLSec)*time.Second,
		metrics.PredictorCacheTotal, logger)
	return cached, cache.Close
}
