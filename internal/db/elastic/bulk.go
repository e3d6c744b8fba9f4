package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/nersearch/internal/db"
)

type bulkAction struct {
	Create bulkMeta `json:"create"`
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// IndexDocuments writes docs with the bulk "create" action. Existing IDs are
// reported as skipped (409), so documents are never overwritten.
func (s *Store) IndexDocuments(ctx context.Context, def *db.IndexDefinition, docs []db.Document) (*db.BulkResult, error) {
	result := &db.BulkResult{}
	if len(docs) == 0 {
		return result, nil
	}

	// Bulk writes auto-create missing indices with dynamic mappings.
	exists, err := s.IndexExists(ctx, def.Name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, db.ErrIndexNotFound
	}

	for start := 0; start < len(docs); start += s.bulkSize {
		end := min(start+s.bulkSize, len(docs))
		if err := s.bulk(ctx, def, docs[start:end], result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Store) bulk(ctx context.Context, def *db.IndexDefinition, docs []db.Document, result *db.BulkResult) error {
	body, err := buildBulkBody(def, docs)
	if err != nil {
		return err
	}

	res, err := s.es.Bulk(bytes.NewReader(body),
		s.es.Bulk.WithIndex(def.Name),
		s.es.Bulk.WithRefresh("wait_for"),
		s.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return &db.Error{Op: db.OpBulk, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		return &db.Error{Op: db.OpBulk, Err: decodeError(res).err(res)}
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return &db.Error{Op: db.OpBulk, Err: fmt.Errorf("decode response: %w", err)}
	}

	for _, item := range br.Items {
		for _, r := range item {
			switch {
			case r.Status >= 200 && r.Status < 300:
				result.Indexed++
			case r.Status == http.StatusConflict:
				result.Skipped++
			default:
				result.Failed++
				reason := http.StatusText(r.Status)
				if r.Error != nil {
					reason = r.Error.Type + ": " + r.Error.Reason
				}
				result.Errors = append(result.Errors, db.BulkError{ID: r.ID, Reason: reason})
			}
		}
	}
	return nil
}

// buildBulkBody renders NDJSON create actions. Copy targets are stripped
// from each source so the store fills them itself.
func buildBulkBody(def *db.IndexDefinition, docs []db.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("document id is required")
		}
		src, err := stripCopyTargets(def, d.Source)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		if err := enc.Encode(bulkAction{Create: bulkMeta{Index: def.Name, ID: d.ID}}); err != nil {
			return nil, err
		}
		buf.Write(src)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func stripCopyTargets(def *db.IndexDefinition, src json.RawMessage) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(src, &fields); err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}
	for name := range fields {
		if _, known := def.Field(name); !known || def.IsCopyTarget(name) {
			delete(fields, name)
		}
	}
	return json.Marshal(fields)
}
