package nersearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/nersearch/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // elastic, redis or memory
	addrs    []string
	username string
	password string

	index  string
	labels []string

	extractor   Extractor
	nerEndpoint string
	nerAPIKey   string

	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElastic connects to an Elasticsearch cluster.
func WithElastic(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = config.DriverElastic
		c.addrs = addrs
	})
}

// WithRedis connects to a Redis 8+ instance with the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = config.DriverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMemory keeps the index in process memory. Nothing is persisted.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = config.DriverMemory
		c.addrs = nil
	})
}

// WithBasicAuth sets document store credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithIndex sets the product index name. Default: "products".
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithLabels overrides the label schema requested from the extractor.
func WithLabels(labels ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.labels = labels
	})
}

// WithExtractor sets a custom entity extractor. Takes precedence over WithNER.
func WithExtractor(e Extractor) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = e
	})
}

// WithNER uses a GLiNER-compatible HTTP extraction server.
func WithNER(endpoint, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.nerEndpoint = endpoint
		c.nerAPIKey = apiKey
	})
}

// WithReadinessTimeout bounds the initial wait for the document store.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
