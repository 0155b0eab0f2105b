package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Request defaults for OpenAI-compatible providers
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// OpenAIConfig configures an OpenAI-compatible chat completions endpoint
type OpenAIConfig struct {
	Name              string // Used in logs, metrics and errors
	BaseURL           string // e.g. https://openrouter.ai/api/v1
	APIKey            string
	Model             string
	Referer           string  // Optional HTTP-Referer header
	Title             string  // Optional X-Title header
	RequestsPerSecond float64 // 0 = unlimited
	Structured        bool    // Request {"answer": string} via json_schema
	Timeout           time.Duration
}

// OpenAIProvider calls POST {BaseURL}/chat/completions
type OpenAIProvider struct {
	cfg     OpenAIConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewOpenAIProvider creates a provider from cfg
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	p := &OpenAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return p
}

func (p *OpenAIProvider) Name() string { return p.cfg.Name }

// Model returns the default model
func (p *OpenAIProvider) Model() string { return p.cfg.Model }

var answerSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"answer": map[string]interface{}{"type": "string"},
	},
	"required":             []string{"answer"},
	"additionalProperties": false,
}

// Complete sends prompt as a single user message and returns the reply text
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if p.cfg.APIKey == "" {
		return "", p.fail(0, "", ErrMissingAPIKey)
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", p.fail(0, "", fmt.Errorf("rate limiter: %w", err))
		}
	}

	model := opts.Model
	if model == "" {
		model = p.cfg.Model
	}
	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	requestBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}
	if p.cfg.Structured {
		requestBody["response_format"] = map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   "concierge_answer",
				"strict": true,
				"schema": answerSchema,
			},
		}
	}

	reqBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", p.fail(0, "", fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", p.fail(0, "", fmt.Errorf("failed to create request: %w", err))
	}
	p.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", p.fail(0, "", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", p.fail(resp.StatusCode, "", fmt.Errorf("failed to read response: %w", err))
	}

	if !json.Valid(body) {
		return "", p.fail(resp.StatusCode, string(body), errors.New("response is not JSON"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("⚠️  [LLM] %s API error (status %d)", p.cfg.Name, resp.StatusCode)
		return "", p.fail(resp.StatusCode, string(body), errors.New("API error"))
	}

	content := extractCompletion(body)
	if p.cfg.Structured {
		if answer, err := ParseStructuredAnswer(content); err == nil {
			return answer, nil
		}
	}
	return content, nil
}

// Ping lists models to check that the endpoint and key work
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if p.cfg.APIKey == "" {
		return p.fail(0, "", ErrMissingAPIKey)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/models", nil)
	if err != nil {
		return p.fail(0, "", fmt.Errorf("failed to create request: %w", err))
	}
	p.setHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return p.fail(0, "", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return p.fail(resp.StatusCode, string(body), errors.New("health check failed"))
	}
	return nil
}

func (p *OpenAIProvider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	if p.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", p.cfg.Referer)
	}
	if p.cfg.Title != "" {
		req.Header.Set("X-Title", p.cfg.Title)
	}
}

func (p *OpenAIProvider) fail(status int, body string, err error) *ProviderError {
	return &ProviderError{Provider: p.cfg.Name, StatusCode: status, Body: truncate(body), Err: err}
}

// extractCompletion reads choices[0].message.content, then choices[0].text,
// and otherwise returns the whole envelope as compact JSON.
func extractCompletion(body []byte) string {
	var envelope struct {
		Choices []struct {
			Message *struct {
				Content *string `json:"content"`
			} `json:"message"`
			Text *string `json:"text"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Choices) > 0 {
		choice := envelope.Choices[0]
		if choice.Message != nil && choice.Message.Content != nil {
			return *choice.Message.Content
		}
		if choice.Text != nil {
			return *choice.Text
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return string(body)
	}
	return compact.String()
}
