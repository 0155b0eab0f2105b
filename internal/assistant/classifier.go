package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"fgperfume/internal/llm"
)

// Verdict is the classifier's decision. An empty Response means none was given.
type Verdict struct {
	OutOfDomain bool
	Response    string
}

var domainKeywords = []string{"perfume", "fgperfume", "scent", "fragrance"}

// Classifier decides whether a query is about FGPerfume
type Classifier struct {
	provider llm.Provider
	model    string
}

// NewClassifier creates a classifier. A nil provider uses the keyword
// heuristic for every query.
func NewClassifier(provider llm.Provider, model string) *Classifier {
	return &Classifier{provider: provider, model: model}
}

// Classify never fails. Provider errors and non-JSON replies fall back to the
// keyword heuristic; JSON without a boolean isOutOfDomain is refused.
func (c *Classifier) Classify(ctx context.Context, query string) Verdict {
	if c.provider == nil {
		return heuristicVerdict(query)
	}

	raw, err := c.provider.Complete(ctx, classifierPrompt(query), llm.Options{
		Temperature: llm.Temperature(0),
		Model:       c.model,
	})
	if err != nil {
		slog.Warn("classifier provider failed, using keyword heuristic", "provider", c.provider.Name(), "error", err)
		providerFailures.WithLabelValues(c.provider.Name(), "classify").Inc()
		return heuristicVerdict(query)
	}

	return parseVerdict(raw, query)
}

func parseVerdict(raw, query string) Verdict {
	var parsed interface{}
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &parsed); err != nil {
		return heuristicVerdict(query)
	}

	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return refused()
	}
	outOfDomain, ok := obj["isOutOfDomain"].(bool)
	if !ok {
		return refused()
	}

	response, _ := obj["response"].(string)
	return Verdict{OutOfDomain: outOfDomain, Response: response}
}

func heuristicVerdict(query string) Verdict {
	q := strings.ToLower(query)
	for _, kw := range domainKeywords {
		if strings.Contains(q, kw) {
			return Verdict{}
		}
	}
	return refused()
}

func refused() Verdict {
	return Verdict{OutOfDomain: true, Response: RefusalMessage}
}
