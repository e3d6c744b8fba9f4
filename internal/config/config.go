package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document store drivers.
const (
	DriverElastic = "elastic"
	DriverRedis   = "redis"
	DriverMemory  = "memory"
)

// Predictor providers.
const (
	ProviderNER    = "ner"
	ProviderOpenAI = "openai"
)

// Config holds the nersearch configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Predictor PredictorConfig `yaml:"predictor"`
	Cache     CacheConfig     `yaml:"cache"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds document store connection settings.
// Addrs wins over Host/Port when set.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // elastic, redis, memory (default: elastic)
	Host             string   `yaml:"host"`
	Port             int      `yaml:"port"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	BulkSize         int      `yaml:"bulk_size"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds result sizing settings.
type SearchConfig struct {
	Index   string `yaml:"index"`
	TopK    int    `yaml:"top_k"`
	MaxTopK int    `yaml:"max_top_k"`
}

// PredictorConfig holds entity extraction settings.
type PredictorConfig struct {
	Provider       string        `yaml:"provider"` // ner, openai (default: ner)
	Endpoint       string        `yaml:"endpoint"`
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	Threshold      float64       `yaml:"threshold"`
	TimeoutSec     int           `yaml:"timeout_sec"`
	Labels         []string      `yaml:"labels"`
	CircuitBreaker BreakerConfig `yaml:"circuit_breaker"`
}

// BreakerConfig holds predictor circuit breaker settings.
type BreakerConfig struct {
	Enabled     bool    `yaml:"enabled"`
	MaxRequests uint32  `yaml:"max_requests"`
	IntervalSec int     `yaml:"interval_sec"`
	TimeoutSec  int     `yaml:"timeout_sec"`
	TripRatio   float64 `yaml:"trip_ratio"`
}

// CacheConfig holds prediction cache settings (Redis KV).
type CacheConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// CatalogConfig holds catalog ingest settings.
type CatalogConfig struct {
	DataFile string `yaml:"data_file"`
}

// Load reads configuration from a YAML file by environment name (local, docker, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	c.applyDatabaseDefaults()

	if c.Search.Index == "" {
		c.Search.Index = "products"
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = 1
	}
	if c.Search.MaxTopK <= 0 {
		c.Search.MaxTopK = 100
	}

	if c.Predictor.Provider == "" {
		c.Predictor.Provider = ProviderNER
	}
	if c.Predictor.TimeoutSec <= 0 {
		c.Predictor.TimeoutSec = 10
	}
	if c.Predictor.Threshold <= 0 {
		c.Predictor.Threshold = 0.5
	}
	cb := &c.Predictor.CircuitBreaker
	if cb.MaxRequests == 0 {
		cb.MaxRequests = 1
	}
	if cb.IntervalSec <= 0 {
		cb.IntervalSec = 60
	}
	if cb.TimeoutSec <= 0 {
		cb.TimeoutSec = 30
	}
	if cb.TripRatio <= 0 {
		cb.TripRatio = 0.6
	}

	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Catalog.DataFile == "" {
		c.Catalog.DataFile = "data/products.json"
	}
}

func (c *Config) applyDatabaseDefaults() {
	db := &c.Database
	if db.Driver == "" {
		db.Driver = DriverElastic
	}
	if db.ReadinessTimeout <= 0 {
		db.ReadinessTimeout = 10
	}
	if db.BulkSize <= 0 {
		db.BulkSize = 500
	}
	if db.Driver == DriverMemory || len(db.Addrs) > 0 {
		return
	}

	if db.Host == "" {
		db.Host = "localhost"
	}
	if db.Port <= 0 {
		db.Port = 9200
		if db.Driver == DriverRedis {
			db.Port = 6379
		}
	}

	hostPort := net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
	if db.Driver == DriverElastic {
		db.Addrs = []string{"http://" + hostPort}
		return
	}
	db.Addrs = []string{hostPort}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverElastic, DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be one of elastic, redis, memory, got %q", c.Database.Driver)
	}

	if c.Search.TopK > c.Search.MaxTopK {
		return fmt.Errorf("search.top_k (%d) must not exceed search.max_top_k (%d)", c.Search.TopK, c.Search.MaxTopK)
	}

	if err := c.Predictor.validate(); err != nil {
		return err
	}

	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	return nil
}

func (p *PredictorConfig) validate() error {
	switch p.Provider {
	case ProviderNER:
		if p.Endpoint == "" {
			return fmt.Errorf("predictor.endpoint is required for provider %q", p.Provider)
		}
	case ProviderOpenAI:
		if p.Model == "" {
			return fmt.Errorf("predictor.model is required for provider %q", p.Provider)
		}
	default:
		return fmt.Errorf("predictor.provider must be \"ner\" or \"openai\", got %q", p.Provider)
	}
	if p.Threshold > 1 {
		return fmt.Errorf("predictor.threshold must be in (0, 1], got %g", p.Threshold)
	}
	if r := p.CircuitBreaker.TripRatio; r > 1 {
		return fmt.Errorf("predictor.circuit_breaker.trip_ratio must be in (0, 1], got %g", r)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
