package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

// Search evaluates the bool query against every document of the index.
// A match clause scores one point per matched query term; terms and range
// clauses filter without scoring. Ties are broken by document ID.
func (s *Store) Search(_ context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	if req.Index == nil || req.Index.Name == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("size must be positive")
	}

	s.indexes.mu.RLock()
	defer s.indexes.mu.RUnlock()

	idx, ok := s.indexes.byKey[req.Index.Name]
	if !ok {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
	}

	var hits []db.Hit
	for _, doc := range idx.docs {
		score, ok := evaluate(doc, req.Query)
		if !ok {
			continue
		}
		hits = append(hits, db.Hit{ID: doc.id, Score: score, Source: doc.source})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	total := len(hits)
	if len(hits) > req.Size {
		hits = hits[:req.Size]
	}
	return &db.SearchResult{Total: total, Hits: hits}, nil
}

func evaluate(doc *document, q query.Bool) (float64, bool) {
	var score float64
	for _, c := range q.Must() {
		s, ok := matchClause(doc, c)
		if !ok {
			return 0, false
		}
		score += s
	}
	for _, c := range q.Should() {
		if s, ok := matchClause(doc, c); ok {
			score += s
		}
	}
	if len(q.Must()) == 0 && len(q.Should()) > 0 && score == 0 {
		return 0, false
	}
	return score, true
}

func matchClause(doc *document, c query.Clause) (float64, bool) {
	switch c.Kind() {
	case query.KindMatch:
		terms := tokenize(c.Text())
		if len(terms) == 0 {
			return 0, false
		}
		postings := make(map[string]struct{}, len(doc.text[c.Field()]))
		for _, t := range doc.text[c.Field()] {
			postings[t] = struct{}{}
		}
		var n float64
		for _, t := range terms {
			if _, ok := postings[t]; ok {
				n++
			}
		}
		return n, n > 0

	case query.KindTerms:
		for _, have := range doc.keywords[c.Field()] {
			for _, want := range c.Values() {
				if have == want {
					return 0, true
				}
			}
		}
		return 0, false

	case query.KindRange:
		v, ok := doc.numbers[c.Field()]
		if !ok {
			return 0, false
		}
		if c.GTE() != nil && v < *c.GTE() {
			return 0, false
		}
		if c.LTE() != nil && v > *c.LTE() {
			return 0, false
		}
		return 0, true

	default:
		return 0, false
	}
}
