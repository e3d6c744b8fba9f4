package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{Endpoint: srv.URL + "/", APIKey: "secret", Threshold: 0.4})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestExtract_RequestShape(t *testing.T) {
	var got extractRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gliner-2", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"result":{"entities":{}}}`))
	})

	ents, err := c.Extract(context.Background(), "blue jacket", prediction.DefaultLabels)
	require.NoError(t, err)
	assert.Empty(t, ents)
	assert.Equal(t, "extract_entities", got.Task)
	assert.Equal(t, "blue jacket", got.Text)
	assert.Equal(t, prediction.DefaultLabels, got.Schema)
	assert.InDelta(t, 0.4, got.Threshold, 1e-9)
}

func TestExtract_OrdersByOffset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"entities":{
			"product":[{"text":"tent","confidence":0.9,"start":0},{"text":"jacket","confidence":0.8,"start":8}],
			"color":[{"text":"blue","confidence":0.7,"start":5}],
			"price":[{"text":"$150","confidence":0.95,"start":21}]
		}}}`))
	})

	ents, err := c.Extract(context.Background(), "tent blue jacket under $150", prediction.DefaultLabels)
	require.NoError(t, err)
	require.Len(t, ents, 4)
	assert.Equal(t, []string{"tent", "blue", "jacket", "$150"},
		[]string{ents[0].Text, ents[1].Text, ents[2].Text, ents[3].Text})
	assert.Equal(t, "color", ents[1].Label)
	assert.InDelta(t, 0.95, ents[3].Score, 1e-9)

	p := prediction.FromEntities("tent blue jacket under $150", ents)
	assert.Equal(t, "jacket", p.Product)
}

func TestExtract_PlainStringSpans(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"entities":{
			"attribute":["packable"],
			"product":["jacket"],
			"brand":["acme"]
		}}}`))
	})

	ents, err := c.Extract(context.Background(), "packable acme jacket", prediction.DefaultLabels)
	require.NoError(t, err)
	require.Len(t, ents, 3)
	// requested label order first, unknown labels last
	assert.Equal(t, "product", ents[0].Label)
	assert.Equal(t, "attribute", ents[1].Label)
	assert.Equal(t, "brand", ents[2].Label)
}

func TestExtract_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"model not loaded"}`))
	})

	_, err := c.Extract(context.Background(), "x", prediction.DefaultLabels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
	assert.Contains(t, err.Error(), "500")
}

func TestExtract_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"entities":{"product":[42]}}}`))
	})
	_, err := c.Extract(context.Background(), "x", prediction.DefaultLabels)
	require.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	healthy := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	require.NoError(t, c.HealthCheck(context.Background()))
	healthy = false
	require.Error(t, c.HealthCheck(context.Background()))
}
