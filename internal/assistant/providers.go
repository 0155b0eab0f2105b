package assistant

import (
	"context"
	"fmt"
	"log"

	"fgperfume/internal/config"
	"fgperfume/internal/llm"
)

const appTitle = "FGPerfume Concierge"

// Providers are the completion providers configured for the pipeline
type Providers struct {
	Primary         *llm.OpenAIProvider
	ClassifierModel string
	Fallback        llm.Provider // nil when no fallback is configured

	gemini *llm.GeminiProvider
}

// NewProviders builds the primary (OpenRouter) and fallback providers from cfg.
// A primary without an API key is still built; its calls fail with a
// ProviderError and the pipeline moves on.
func NewProviders(ctx context.Context, cfg *config.Config) (*Providers, error) {
	p := &Providers{
		Primary: llm.NewOpenAIProvider(llm.OpenAIConfig{
			Name:              "openrouter",
			BaseURL:           cfg.OpenRouterBaseURL,
			APIKey:            cfg.OpenRouterAPIKey,
			Model:             cfg.OpenRouterModel,
			Title:             appTitle,
			RequestsPerSecond: cfg.OpenRouterRPS,
		}),
		ClassifierModel: cfg.ClassifierModel,
	}
	if cfg.OpenRouterAPIKey == "" {
		log.Println("⚠️  OPENROUTER_API_KEY not set, the primary provider will always fail over")
	}

	switch cfg.FallbackProvider {
	case "gemini":
		gemini, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		if gemini == nil {
			log.Println("⚠️  GEMINI_API_KEY not set, running without a fallback provider")
			break
		}
		p.gemini = gemini
		p.Fallback = gemini
	case "openai":
		if cfg.FallbackBaseURL == "" {
			log.Println("⚠️  FALLBACK_BASE_URL not set, running without a fallback provider")
			break
		}
		p.Fallback = llm.NewOpenAIProvider(llm.OpenAIConfig{
			Name:       "openai",
			BaseURL:    cfg.FallbackBaseURL,
			APIKey:     cfg.FallbackAPIKey,
			Model:      cfg.FallbackModel,
			Title:      appTitle,
			Structured: true,
		})
	}

	return p, nil
}

// Concierge wires the pipeline: the classifier and the first strategy use
// the primary provider, the structured strategy uses the fallback.
func (p *Providers) Concierge(s Store) *Concierge {
	return NewConcierge(s,
		NewClassifier(p.Primary, p.ClassifierModel),
		NewConciergeStrategy(p.Primary),
		NewStructuredStrategy(p.Fallback),
	)
}

// Close releases provider clients
func (p *Providers) Close() {
	if p.gemini != nil {
		p.gemini.Close()
	}
}
