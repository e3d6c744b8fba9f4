package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/domain"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	"github.com/kailas-cloud/nersearch/internal/metrics"
)

// Compile-time checks.
var (
	_ domain.Extractor     = (*Extractor)(nil)
	_ domain.HealthChecker = (*Extractor)(nil)
)

const systemPrompt = `You extract entities from e-commerce search queries.
Return a JSON object {"entities":[{"text":"...","label":"..."}]}.
Allowed labels: %s.
Copy each span verbatim from the query, in the order it appears.
Return {"entities":[]} when nothing matches.`

// Extractor is an entity extractor backed by an OpenAI-compatible chat model.
type Extractor struct {
	client      *openai.Client
	model       string
	temperature float32
	user        string
	logger      *zap.Logger
}

// Config holds the chat model settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	User        string
	Logger      *zap.Logger
}

// NewExtractor creates an OpenAI-compatible entity extractor.
func NewExtractor(cfg *Config) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		user:        cfg.User,
		logger:      logger,
	}
}

type chatEntities struct {
	Entities []prediction.Entity `json:"entities"`
}

// Extract implements domain.Extractor.
func (e *Extractor) Extract(ctx context.Context, text string, labels []string) ([]prediction.Entity, error) {
	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		User:        e.user,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, strings.Join(labels, ", "))},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, parseAPIError(err)
	}

	if resp.Usage.TotalTokens > 0 {
		metrics.PredictorTokensTotal.WithLabelValues(e.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.PredictorTokensTotal.WithLabelValues(e.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrPredictorUnavailable)
	}

	var out chatEntities
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		e.logger.Warn("Unparseable extraction output", zap.String("content", content), zap.Error(err))
		return nil, fmt.Errorf("decode completion: %v: %w", err, domain.ErrPredictorUnavailable)
	}

	return filterLabels(out.Entities, labels), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Extractor) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// filterLabels drops spans the model invented outside the requested schema.
func filterLabels(entities []prediction.Entity, labels []string) []prediction.Entity {
	allowed := make(map[string]bool, len(labels))
	for _, l := range labels {
		allowed[strings.ToLower(l)] = true
	}
	out := make([]prediction.Entity, 0, len(entities))
	for _, ent := range entities {
		if allowed[strings.ToLower(ent.Label)] {
			out = append(out, ent)
		}
	}
	return out
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrPredictorUnavailable so the HTTP layer maps them to 502.
func parseAPIError(err error) error {
	wrap := domain.ErrPredictorUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("completion request: %w", err)
	}

	return fmt.Errorf("completion request failed: %v: %w", err, wrap)
}

// extractDetail reads the "detail" field of a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
