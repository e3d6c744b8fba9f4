package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/nersearch/internal/db"
)

// CreateIndex creates an index with a mapping rendered from def.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	body, err := buildMapping(def)
	if err != nil {
		return err
	}

	res, err := s.es.Indices.Create(def.Name,
		s.es.Indices.Create.WithBody(bytes.NewReader(body)),
		s.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		e := decodeError(res)
		if e.Error.Type == "resource_already_exists_exception" {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: e.err(res)}
	}
	return nil
}

// DropIndex deletes the index and every document in it.
func (s *Store) DropIndex(ctx context.Context, def *db.IndexDefinition) error {
	res, err := s.es.Indices.Delete([]string{def.Name},
		s.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	defer drain(res)

	if res.StatusCode == http.StatusNotFound {
		return db.ErrIndexNotFound
	}
	if res.IsError() {
		return &db.Error{Op: db.OpDropIndex, Err: decodeError(res).err(res)}
	}
	return nil
}

// IndexExists probes the index with a HEAD request.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.es.Indices.Exists([]string{name},
		s.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	defer drain(res)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &db.Error{Op: db.OpIndexInfo, Err: fmt.Errorf("status %s", res.Status())}
	}
}

// buildMapping renders def as an index creation body.
func buildMapping(def *db.IndexDefinition) ([]byte, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	props := make(map[string]any, len(def.Fields))
	for i := range def.Fields {
		f := &def.Fields[i]
		m := map[string]any{"type": fieldType(f.Type)}
		if len(f.CopyTo) > 0 {
			m["copy_to"] = f.CopyTo
		}
		props[f.Name] = m
	}

	body := map[string]any{
		"mappings": map[string]any{
			"dynamic":    "strict",
			"properties": props,
		},
	}
	return json.Marshal(body)
}

func fieldType(t db.IndexFieldType) string {
	switch t {
	case db.IndexFieldKeyword:
		return "keyword"
	case db.IndexFieldNumeric:
		return "float"
	default:
		return "text"
	}
}
