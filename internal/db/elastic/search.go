package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a bool query and returns up to req.Size hits.
func (s *Store) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	if req.Index == nil || req.Index.Name == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("size must be positive")
	}

	body, err := json.Marshal(map[string]any{
		"size":  req.Size,
		"query": buildQuery(req.Query),
	})
	if err != nil {
		return nil, err
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(req.Index.Name),
		s.es.Search.WithBody(bytes.NewReader(body)),
		s.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer drain(res)

	if res.StatusCode == http.StatusNotFound {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
	}
	if res.IsError() {
		return nil, &db.Error{Op: db.OpSearch, Err: decodeError(res).err(res)}
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("decode response: %w", err)}
	}

	out := &db.SearchResult{Total: sr.Hits.Total.Value, Hits: make([]db.Hit, 0, len(sr.Hits.Hits))}
	for _, h := range sr.Hits.Hits {
		hit := db.Hit{ID: h.ID, Source: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

// buildQuery renders a query.Bool as query DSL.
func buildQuery(b query.Bool) map[string]any {
	if b.IsEmpty() {
		return map[string]any{"match_all": map[string]any{}}
	}

	boolQ := map[string]any{}
	if must := renderClauses(b.Must()); len(must) > 0 {
		boolQ["must"] = must
	}
	if should := renderClauses(b.Should()); len(should) > 0 {
		boolQ["should"] = should
	}
	return map[string]any{"bool": boolQ}
}

func renderClauses(cs []query.Clause) []map[string]any {
	out := make([]map[string]any, 0, len(cs))
	for _, c := range cs {
		if r := renderClause(c); r != nil {
			out = append(out, r)
		}
	}
	return out
}

func renderClause(c query.Clause) map[string]any {
	switch c.Kind() {
	case query.KindMatch:
		return map[string]any{
			"match": map[string]any{
				c.Field(): map[string]any{"query": c.Text()},
			},
		}
	case query.KindTerms:
		return map[string]any{
			"terms": map[string]any{c.Field(): c.Values()},
		}
	case query.KindRange:
		bounds := map[string]any{}
		if c.GTE() != nil {
			bounds["gte"] = *c.GTE()
		}
		if c.LTE() != nil {
			bounds["lte"] = *c.LTE()
		}
		return map[string]any{
			"range": map[string]any{c.Field(): bounds},
		}
	default:
		return nil
	}
}
