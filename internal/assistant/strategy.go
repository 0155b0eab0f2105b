package assistant

import (
	"context"
	"errors"

	"fgperfume/internal/llm"
	"fgperfume/internal/models"
)

// GenerationInput is everything a strategy needs to answer one query
type GenerationInput struct {
	Query         string
	KnowledgeBase string
	Language      string // Language name, e.g. "English"
	Role          models.Role
}

// Strategy produces an answer or fails. Strategies are tried in order.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, in GenerationInput) (string, error)
}

var errNoProvider = errors.New("no provider configured")

// PromptStrategy renders a prompt and sends it to a provider
type PromptStrategy struct {
	name     string
	provider llm.Provider
	render   func(GenerationInput) string
	opts     llm.Options
	// adminGuard answers admin callers without calling the provider
	adminGuard bool
}

// NewConciergeStrategy answers with the concierge prompt on provider
func NewConciergeStrategy(provider llm.Provider) *PromptStrategy {
	return &PromptStrategy{
		name:     "concierge",
		provider: provider,
		render:   conciergePrompt,
	}
}

// NewStructuredStrategy answers with the structured prompt on provider.
// The provider is expected to reply with the bare answer text.
func NewStructuredStrategy(provider llm.Provider) *PromptStrategy {
	return &PromptStrategy{
		name:       "structured",
		provider:   provider,
		render:     structuredPrompt,
		adminGuard: true,
	}
}

// Name combines the strategy and provider names, e.g. "concierge/openrouter"
func (s *PromptStrategy) Name() string {
	if s.provider == nil {
		return s.name
	}
	return s.name + "/" + s.provider.Name()
}

func (s *PromptStrategy) Generate(ctx context.Context, in GenerationInput) (string, error) {
	if s.adminGuard && in.Role == models.RoleAdmin {
		return AdminMessage, nil
	}
	if s.provider == nil {
		return "", errNoProvider
	}
	return s.provider.Complete(ctx, s.render(in), s.opts)
}
