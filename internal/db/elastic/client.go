package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/nersearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for an Elasticsearch store.
type Config struct {
	Addresses []string
	Username  string
	Password  string

	// BulkSize caps documents per bulk request (default 500).
	BulkSize int

	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Store implements db.Store on top of the official Elasticsearch client.
type Store struct {
	es       *elasticsearch.Client
	bulkSize int
}

// NewStore creates an Elasticsearch store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses are required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	bulkSize := cfg.BulkSize
	if bulkSize <= 0 {
		bulkSize = 500
	}
	return &Store{es: es, bulkSize: bulkSize}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.es.Ping(s.es.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("status %s", res.Status())}
	}
	return nil
}

// Close releases idle connections. The client itself holds no other resources.
func (s *Store) Close() {
	if t, ok := s.es.Transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// apiError is the error envelope returned by Elasticsearch.
type apiError struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// decodeError reads the error envelope of a failed response.
func decodeError(res *esapi.Response) apiError {
	var e apiError
	if res.Body == nil {
		return e
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return e
	}
	if err := json.Unmarshal(body, &e); err != nil {
		e.Error.Reason = string(body)
	}
	return e
}

func (e apiError) err(res *esapi.Response) error {
	if e.Error.Type == "" {
		return fmt.Errorf("status %s: %s", res.Status(), e.Error.Reason)
	}
	return fmt.Errorf("status %s: %s: %s", res.Status(), e.Error.Type, e.Error.Reason)
}

func drain(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}
