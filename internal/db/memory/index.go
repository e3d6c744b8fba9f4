package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/kailas-cloud/nersearch/internal/db"
)

type document struct {
	id       string
	source   json.RawMessage
	text     map[string][]string
	keywords map[string][]string
	numbers  map[string]float64
}

type index struct {
	def  *db.IndexDefinition
	docs map[string]*document
}

type indexSet struct {
	mu    sync.RWMutex
	byKey map[string]*index
}

func newIndexSet() *indexSet {
	return &indexSet{byKey: make(map[string]*index)}
}

// CreateIndex registers def. Existing indexes are left untouched.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	s.indexes.mu.Lock()
	defer s.indexes.mu.Unlock()

	if _, ok := s.indexes.byKey[def.Name]; ok {
		return db.ErrIndexExists
	}
	s.indexes.byKey[def.Name] = &index{def: def, docs: make(map[string]*document)}
	return nil
}

// DropIndex removes the index and its documents.
func (s *Store) DropIndex(_ context.Context, def *db.IndexDefinition) error {
	s.indexes.mu.Lock()
	defer s.indexes.mu.Unlock()

	if _, ok := s.indexes.byKey[def.Name]; !ok {
		return db.ErrIndexNotFound
	}
	delete(s.indexes.byKey, def.Name)
	return nil
}

// IndexExists reports whether the index is registered.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.indexes.mu.RLock()
	defer s.indexes.mu.RUnlock()
	_, ok := s.indexes.byKey[name]
	return ok, nil
}

// IndexDocuments adds docs whose IDs are not yet present. The stored
// mapping is used, so copy targets are always derived from their sources.
func (s *Store) IndexDocuments(_ context.Context, def *db.IndexDefinition, docs []db.Document) (*db.BulkResult, error) {
	s.indexes.mu.Lock()
	defer s.indexes.mu.Unlock()

	idx, ok := s.indexes.byKey[def.Name]
	if !ok {
		return nil, db.ErrIndexNotFound
	}

	result := &db.BulkResult{}
	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("document id is required")
		}
		if _, exists := idx.docs[d.ID]; exists {
			result.Skipped++
			continue
		}
		doc, err := analyze(idx.def, d)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, db.BulkError{ID: d.ID, Reason: err.Error()})
			continue
		}
		idx.docs[d.ID] = doc
		result.Indexed++
	}
	return result, nil
}

// analyze parses a source into per-field postings following def.
func analyze(def *db.IndexDefinition, d db.Document) (*document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(d.Source, &raw); err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}

	doc := &document{
		id:       d.ID,
		text:     make(map[string][]string),
		keywords: make(map[string][]string),
		numbers:  make(map[string]float64),
	}
	kept := make(map[string]json.RawMessage, len(raw))

	for i := range def.Fields {
		f := &def.Fields[i]
		if def.IsCopyTarget(f.Name) {
			continue
		}
		v, ok := raw[f.Name]
		if !ok || string(v) == "null" {
			continue
		}
		kept[f.Name] = v

		switch f.Type {
		case db.IndexFieldNumeric:
			var n float64
			if err := json.Unmarshal(v, &n); err != nil {
				return nil, fmt.Errorf("field %s: expected number", f.Name)
			}
			doc.numbers[f.Name] = n
		case db.IndexFieldKeyword, db.IndexFieldText:
			vals, err := stringValues(v)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			if f.Type == db.IndexFieldKeyword {
				doc.keywords[f.Name] = vals
			} else {
				doc.text[f.Name] = tokenize(strings.Join(vals, " "))
			}
			for _, target := range f.CopyTo {
				doc.text[target] = append(doc.text[target], tokenize(strings.Join(vals, " "))...)
			}
		}
	}

	src, err := json.Marshal(kept)
	if err != nil {
		return nil, err
	}
	doc.source = src
	return doc, nil
}

func stringValues(v json.RawMessage) ([]string, error) {
	var one string
	if err := json.Unmarshal(v, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(v, &many); err != nil {
		return nil, fmt.Errorf("expected string or string array")
	}
	return many, nil
}

// tokenize lowercases s and splits it on non-alphanumeric runes.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
