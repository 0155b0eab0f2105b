package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider asks Gemini for a structured {"answer": string} reply
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini client. An empty API key yields a nil
// provider and no error so that callers can run without a fallback.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) Name() string { return "gemini" }

// Close releases the underlying client
func (g *GeminiProvider) Close() {
	if g == nil || g.client == nil {
		return
	}
	if err := g.client.Close(); err != nil {
		log.Printf("warning: failed to close Gemini client: %v", err)
	}
}

func (g *GeminiProvider) generativeModel(opts Options) *genai.GenerativeModel {
	name := opts.Model
	if name == "" {
		name = g.model
	}

	model := g.client.GenerativeModel(name)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"answer": {Type: genai.TypeString},
		},
		Required: []string{"answer"},
	}
	if opts.Temperature != nil {
		model.SetTemperature(float32(*opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	return model
}

// Complete generates a structured answer for prompt
func (g *GeminiProvider) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if g == nil || g.client == nil {
		return "", &ProviderError{Provider: "gemini", Err: ErrMissingAPIKey}
	}

	resp, err := g.generativeModel(opts).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Err: fmt.Errorf("failed to generate content: %w", err)}
	}

	text, err := responseText(resp)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Err: err}
	}

	answer, err := ParseStructuredAnswer(text)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Body: truncate(text), Err: err}
	}
	return answer, nil
}

// Ping fetches model metadata
func (g *GeminiProvider) Ping(ctx context.Context) error {
	if g == nil || g.client == nil {
		return &ProviderError{Provider: "gemini", Err: ErrMissingAPIKey}
	}
	if _, err := g.client.GenerativeModel(g.model).Info(ctx); err != nil {
		return &ProviderError{Provider: g.Name(), Err: fmt.Errorf("health check failed: %w", err)}
	}
	return nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidate in response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("candidate has no text")
	}
	return sb.String(), nil
}
