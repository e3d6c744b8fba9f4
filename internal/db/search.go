package db

import (
	"encoding/json"

	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

// Document is a single record to index. Source is the JSON body; copy
// targets present in Source are ignored by drivers.
type Document struct {
	ID     string
	Source json.RawMessage
}

// BulkResult reports the outcome of IndexDocuments.
type BulkResult struct {
	Indexed int
	Skipped int // already present, left untouched
	Failed  int
	Errors  []BulkError
}

// BulkError describes a single failed document.
type BulkError struct {
	ID     string
	Reason string
}

// SearchRequest is the input for a boolean search.
type SearchRequest struct {
	Index *IndexDefinition
	Query query.Bool
	Size  int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total int
	Hits  []Hit
}

// Hit is a single document match, highest score first.
type Hit struct {
	ID     string
	Score  float64
	Source json.RawMessage
}
