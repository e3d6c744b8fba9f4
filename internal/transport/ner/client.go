// Package ner is an HTTP client for a GLiNER2-compatible entity extraction server.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/nersearch/internal/domain"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
)

// Compile-time checks.
var (
	_ domain.Extractor     = (*Client)(nil)
	_ domain.HealthChecker = (*Client)(nil)
)

const (
	extractPath = "/gliner-2"
	healthPath  = "/health"
)

// Config holds connection parameters for the NER server.
type Config struct {
	Endpoint  string
	APIKey    string
	Threshold float64
	Timeout   time.Duration
}

// Client calls the extraction server over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	threshold  float64
	httpClient *http.Client
}

// New creates a NER client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		threshold:  cfg.Threshold,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type extractRequest struct {
	Task      string   `json:"task"`
	Text      string   `json:"text"`
	Schema    []string `json:"schema"`
	Threshold float64  `json:"threshold,omitempty"`
}

type extractResponse struct {
	Result struct {
		Entities map[string][]json.RawMessage `json:"entities"`
	} `json:"result"`
}

type entitySpan struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Start      *int    `json:"start"`
}

// Extract returns labeled spans for text, ordered by position in text
// when the server reports offsets, otherwise by label then server order.
func (c *Client) Extract(ctx context.Context, text string, labels []string) ([]prediction.Entity, error) {
	body, err := json.Marshal(extractRequest{
		Task:      "extract_entities",
		Text:      text,
		Schema:    labels,
		Threshold: c.threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+extractPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return nil, fmt.Errorf("ner API error (status %d): %s", resp.StatusCode, apiErr.Detail)
	}

	var er extractResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return flatten(er.Result.Entities, labels)
}

// HealthCheck probes the server health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

type positioned struct {
	entity prediction.Entity
	start  int
	seq    int
}

// flatten converts the per-label map into an ordered entity list. Spans may
// be plain strings or objects with text/confidence/start.
func flatten(byLabel map[string][]json.RawMessage, labels []string) ([]prediction.Entity, error) {
	order := make([]string, 0, len(byLabel))
	known := make(map[string]bool, len(labels))
	for _, l := range labels {
		if _, ok := byLabel[l]; ok {
			order = append(order, l)
		}
		known[l] = true
	}
	var extra []string
	for l := range byLabel {
		if !known[l] {
			extra = append(extra, l)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	var items []positioned
	withOffsets := true
	for _, label := range order {
		for _, raw := range byLabel[label] {
			span, err := decodeSpan(raw)
			if err != nil {
				return nil, fmt.Errorf("label %s: %w", label, err)
			}
			start := -1
			if span.Start != nil {
				start = *span.Start
			} else {
				withOffsets = false
			}
			items = append(items, positioned{
				entity: prediction.Entity{Text: span.Text, Label: label, Score: span.Confidence},
				start:  start,
				seq:    len(items),
			})
		}
	}

	if withOffsets {
		sort.SliceStable(items, func(i, j int) bool { return items[i].start < items[j].start })
	}

	out := make([]prediction.Entity, len(items))
	for i, it := range items {
		out[i] = it.entity
	}
	return out, nil
}

func decodeSpan(raw json.RawMessage) (entitySpan, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return entitySpan{Text: s}, nil
	}
	var span entitySpan
	if err := json.Unmarshal(raw, &span); err != nil {
		return entitySpan{}, fmt.Errorf("decode entity: %w", err)
	}
	return span, nil
}
