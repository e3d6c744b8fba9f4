package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/nersearch/internal/db"
)

// IndexDocuments stores docs as hashes under the index prefix. Keys that
// already exist are skipped. Copy targets are computed here from their
// source fields since RediSearch has no copy_to.
func (s *Store) IndexDocuments(ctx context.Context, def *db.IndexDefinition, docs []db.Document) (*db.BulkResult, error) {
	result := &db.BulkResult{}
	if len(docs) == 0 {
		return result, nil
	}

	exists, err := s.IndexExists(ctx, def.Name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, db.ErrIndexNotFound
	}

	prefix := def.KeyPrefix()
	type pending struct {
		key    string
		id     string
		fields map[string]string
	}

	items := make([]pending, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("document id is required")
		}
		fields, err := encodeHash(def, d.Source)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, db.BulkError{ID: d.ID, Reason: err.Error()})
			continue
		}
		items = append(items, pending{key: prefix + d.ID, id: d.ID, fields: fields})
	}
	if len(items) == 0 {
		return result, nil
	}

	checks := make([]rueidis.Completed, len(items))
	for i, it := range items {
		checks[i] = s.b().Exists().Key(it.key).Build()
	}

	var writes []rueidis.Completed
	var written []pending
	for i, res := range s.client.DoMulti(ctx, checks...) {
		n, err := res.AsInt64()
		if err != nil {
			return result, &db.Error{Op: db.OpExists, Err: fmt.Errorf("key %s: %w", items[i].key, err)}
		}
		if n > 0 {
			result.Skipped++
			continue
		}
		cmd := s.b().Hset().Key(items[i].key).FieldValue()
		for k, v := range items[i].fields {
			cmd = cmd.FieldValue(k, v)
		}
		writes = append(writes, cmd.Build())
		written = append(written, items[i])
	}
	if len(writes) == 0 {
		return result, nil
	}

	for i, res := range s.client.DoMulti(ctx, writes...) {
		if err := res.Error(); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, db.BulkError{ID: written[i].id, Reason: err.Error()})
			continue
		}
		result.Indexed++
	}
	return result, nil
}

// encodeHash flattens a JSON source into hash fields following def.
// Unknown fields and caller-supplied copy targets are dropped.
func encodeHash(def *db.IndexDefinition, src json.RawMessage) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}

	fields := make(map[string]string, len(def.Fields))
	copied := make(map[string][]string)

	for i := range def.Fields {
		f := &def.Fields[i]
		if def.IsCopyTarget(f.Name) {
			continue
		}
		v, ok := raw[f.Name]
		if !ok || v == nil {
			continue
		}

		switch f.Type {
		case db.IndexFieldNumeric:
			n, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("field %s: expected number", f.Name)
			}
			fields[f.Name] = strconv.FormatFloat(n, 'f', -1, 64)
		case db.IndexFieldKeyword:
			vals, err := stringValues(f.Name, v)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = strings.Join(vals, f.Separator())
			for _, t := range f.CopyTo {
				copied[t] = append(copied[t], vals...)
			}
		case db.IndexFieldText:
			vals, err := stringValues(f.Name, v)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = strings.Join(vals, " ")
			for _, t := range f.CopyTo {
				copied[t] = append(copied[t], vals...)
			}
		}
	}

	for target, vals := range copied {
		fields[target] = strings.Join(vals, " ")
	}
	return fields, nil
}

func stringValues(name string, v any) ([]string, error) {
	switch t := v.(type) {
	case string:
		return []string{t}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("field %s: expected string values", name)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("field %s: expected string or string array", name)
	}
}

// decodeHash rebuilds a JSON source from hash fields following def.
func decodeHash(def *db.IndexDefinition, fields map[string]string) (json.RawMessage, error) {
	out := make(map[string]any, len(def.Fields))
	for i := range def.Fields {
		f := &def.Fields[i]
		if def.IsCopyTarget(f.Name) {
			continue
		}
		v, ok := fields[f.Name]
		if !ok {
			continue
		}
		switch f.Type {
		case db.IndexFieldNumeric:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			out[f.Name] = n
		case db.IndexFieldKeyword:
			vals := []string{}
			if v != "" {
				vals = strings.Split(v, f.Separator())
			}
			out[f.Name] = vals
		default:
			out[f.Name] = v
		}
	}
	return json.Marshal(out)
}
