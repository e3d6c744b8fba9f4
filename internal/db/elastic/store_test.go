package elastic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func response(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestStore(t *testing.T, fn roundTripFunc) *Store {
	t.Helper()
	s, err := NewStore(Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: fn,
	})
	require.NoError(t, err)
	return s
}

func testIndex() *db.IndexDefinition {
	return db.NewIndex("products").
		Text("title", "all").
		Text("product_type", "all").
		Keyword("colors", "all").
		Keyword("attrs", "all").
		Numeric("price").
		Text("all").
		MustBuild()
}

func f64(v float64) *float64 { return &v }

func TestNewStore_NoAddresses(t *testing.T) {
	_, err := NewStore(Config{})
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	s := newTestStore(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodHead, r.Method)
		return response(http.StatusOK, ""), nil
	})
	require.NoError(t, s.Ping(context.Background()))
}

func TestPing_TransportError(t *testing.T) {
	s := newTestStore(t, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	err := s.Ping(context.Background())
	require.Error(t, err)

	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpPing, dbErr.Op)
}

func TestCreateIndex_Mapping(t *testing.T) {
	var captured map[string]any
	s := newTestStore(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		return response(http.StatusOK, `{"acknowledged":true}`), nil
	})

	require.NoError(t, s.CreateIndex(context.Background(), testIndex()))

	props := captured["mappings"].(map[string]any)["properties"].(map[string]any)
	title := props["title"].(map[string]any)
	assert.Equal(t, "text", title["type"])
	assert.Equal(t, []any{"all"}, title["copy_to"])
	assert.Equal(t, "keyword", props["colors"].(map[string]any)["type"])
	assert.Equal(t, "float", props["price"].(map[string]any)["type"])
	assert.NotContains(t, props["price"].(map[string]any), "copy_to")
	assert.Equal(t, "text", props["all"].(map[string]any)["type"])
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	s := newTestStore(t, func(*http.Request) (*http.Response, error) {
		return response(http.StatusBadRequest,
			`{"error":{"type":"resource_already_exists_exception","reason":"index [products] already exists"},"status":400}`), nil
	})
	err := s.CreateIndex(context.Background(), testIndex())
	assert.ErrorIs(t, err, db.ErrIndexExists)
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	s := newTestStore(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	err := s.CreateIndex(context.Background(), &db.IndexDefinition{Name: "x"})
	assert.ErrorIs(t, err, db.ErrInvalidIndex)
}

func TestDropIndex(t *testing.T) {
	s := newTestStore(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodDelete, r.Method)
		return response(http.StatusOK, `{"acknowledged":true}`), nil
	})
	require.NoError(t, s.DropIndex(context.Background(), testIndex()))
}

func TestDropIndex_NotFound(t *testing.T) {
	s := newTestStore(t, func(*http.Request) (*http.Response, error) {
		return response(http.StatusNotFound, `{"error":{"type":"index_not_found_exception"},"status":404}`), nil
	})
	err := s.DropIndex(context.Background(), testIndex())
	assert.ErrorIs(t, err, db.ErrIndexNotFound)
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		status  int
		want    bool
		wantErr bool
	}{
		{http.StatusOK, true, false},
		{http.StatusNotFound, false, false},
		{http.StatusForbidden, false, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			s := newTestStore(t, func(*http.Request) (*http.Response, error) {
				return response(tt.status, ""), nil
			})
			got, err := s.IndexExists(context.Background(), "products")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexDocuments_CreateOnly(t *testing.T) {
	var bulkBody []byte
	s := newTestStore(t, func(r *http.Request) (*http.Response, error) {
		if r.Method == http.MethodHead {
			return response(http.StatusOK, ""), nil
		}
		assert.True(t, strings.HasSuffix(r.URL.Path, "/_bulk"))
		bulkBody, _ = io.ReadAll(r.Body)
		return response(http.StatusOK, `{"errors":true,"items":[
			{"create":{"_id":"1","status":201}},
			{"create":{"_id":"2","status":409,"error":{"type":"version_conflict_engine_exception","reason":"exists"}}},
			{"create":{"_id":"3","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad price"}}}
		]}`), nil
	})

	docs := []db.Document{
		{ID: "1", Source: json.RawMessage(`{"title":"Rain Jacket","price":120,"all":"injected"}`)},
		{ID: "2", Source: json.RawMessage(`{"title":"Tent","price":300}`)},
		{ID: "3", Source: json.RawMessage(`{"title":"Boots","price":80}`)},
	}
	res, err := s.IndexDocuments(context.Background(), testIndex(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Indexed)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "3", res.Errors[0].ID)
	assert.Contains(t, res.Errors[0].Reason, "mapper_parsing_exception")

	sc := bufio.NewScanner(bytes.NewReader(bulkBody))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 6)
	assert.JSONEq(t, `{"create":{"_index":"products","_id":"1"}}`, lines[0])
	assert.NotContains(t, lines[1], "injected")
	assert.JSONEq(t, `{"title":"Rain Jacket","price":120}`, lines[1])
}

func TestIndexDocuments_MissingIndex(t *testing.T) {
	s := newTestStore(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodHead, r.Method)
		return response(http.StatusNotFound, ""), nil
	})
	_, err := s.IndexDocuments(context.Background(), testIndex(), []db.Document{
		{ID: "1", Source: json.RawMessage(`{"title":"x"}`)},
	})
	assert.ErrorIs(t, err, db.ErrIndexNotFound)
}

func TestIndexDocuments_Empty(t *testing.T) {
	s := newTestStore(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	res, err := s.IndexDocuments(context.Background(), testIndex(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Indexed)
}

func TestIndexDocuments_Chunked(t *testing.T) {
	bulkCalls := 0
	s, err := NewStore(Config{
		Addresses: []string{"http://es.test:9200"},
		BulkSize:  2,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Method == http.MethodHead {
				return response(http.StatusOK, ""), nil
			}
			bulkCalls++
			body, _ := io.ReadAll(r.Body)
			n := strings.Count(string(body), "\n") / 2
			items := make([]string, n)
			for i := range items {
				items[i] = `{"create":{"status":201}}`
			}
			return response(http.StatusOK, `{"errors":false,"items":[`+strings.Join(items, ",")+`]}`), nil
		}),
	})
	require.NoError(t, err)

	docs := make([]db.Document, 5)
	for i := range docs {
		docs[i] = db.Document{ID: string(rune('a' + i)), Source: json.RawMessage(`{"title":"t"}`)}
	}
	res, err := s.IndexDocuments(context.Background(), testIndex(), docs)
	require.NoError(t, err)
	assert.Equal(t, 3, bulkCalls)
	assert.Equal(t, 5, res.Indexed)
}

func TestSearch_RendersBoolQuery(t *testing.T) {
	var captured map[string]any
	s := newTestStore(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/products/_search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		return response(http.StatusOK, `{"hits":{"total":{"value":1},"hits":[
			{"_id":"1","_score":2.5,"_source":{"title":"Packable Rain Jacket","price":120}}
		]}}`), nil
	})

	q := query.NewBool(
		[]query.Clause{
			query.Match("title", "jacket"),
			query.Terms("colors", "blue"),
			query.Range("price", f64(50), f64(150)),
		},
		[]query.Clause{query.Match("all", "packable")},
	)

	res, err := s.Search(context.Background(), &db.SearchRequest{Index: testIndex(), Query: q, Size: 3})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "1", res.Hits[0].ID)
	assert.InDelta(t, 2.5, res.Hits[0].Score, 1e-9)
	assert.JSONEq(t, `{"title":"Packable Rain Jacket","price":120}`, string(res.Hits[0].Source))

	want := `{
		"size": 3,
		"query": {"bool": {
			"must": [
				{"match": {"title": {"query": "jacket"}}},
				{"terms": {"colors": ["blue"]}},
				{"range": {"price": {"gte": 50, "lte": 150}}}
			],
			"should": [
				{"match": {"all": {"query": "packable"}}}
			]
		}}
	}`
	got, _ := json.Marshal(captured)
	assert.JSONEq(t, want, string(got))
}

func TestBuildQuery_OpenRange(t *testing.T) {
	q := query.NewBool([]query.Clause{query.Range("price", nil, f64(100))}, nil)
	got, err := json.Marshal(buildQuery(q))
	require.NoError(t, err)
	assert.JSONEq(t, `{"bool":{"must":[{"range":{"price":{"lte":100}}}]}}`, string(got))
}

func TestBuildQuery_Empty(t *testing.T) {
	got, err := json.Marshal(buildQuery(query.Bool{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"match_all":{}}`, string(got))
}

func TestSearch_IndexNotFound(t *testing.T) {
	s := newTestStore(t, func(*http.Request) (*http.Response, error) {
		return response(http.StatusNotFound, `{"error":{"type":"index_not_found_exception"},"status":404}`), nil
	})
	_, err := s.Search(context.Background(), &db.SearchRequest{
		Index: testIndex(),
		Query: query.NewBool([]query.Clause{query.Match("title", "x")}, nil),
		Size:  1,
	})
	assert.ErrorIs(t, err, db.ErrIndexNotFound)
}

func TestSearch_Validation(t *testing.T) {
	s := newTestStore(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	_, err := s.Search(context.Background(), &db.SearchRequest{Size: 1})
	require.Error(t, err)
	_, err = s.Search(context.Background(), &db.SearchRequest{Index: testIndex()})
	require.Error(t, err)
}
