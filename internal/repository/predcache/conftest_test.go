package predcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
)

type mockPredictor struct {
	result prediction.Prediction
	err    error
	calls  int
}

func (m *mockPredictor) Predict(_ context.Context, text string) (prediction.Prediction, error) {
	m.calls++
	if m.err != nil {
		return prediction.Prediction{}, m.err
	}
	p := m.result
	p.Text = text
	return p, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data  map[string][]byte
	ttls  map[string]time.Duration
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	if m.data == nil {
		m.data = map[string][]byte{}
		m.ttls = map[string]time.Duration{}
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestCachedPredictor(t *testing.T, inner *mockPredictor) (*CachedPredictor, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cp := New(inner, ms, time.Hour, nil, zap.NewNop())
	return cp, ms
}
