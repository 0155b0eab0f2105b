package assistant

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"fgperfume/internal/knowledge"
	"fgperfume/internal/logging"
	"fgperfume/internal/models"

	"github.com/google/uuid"
)

// Request is one customer question
type Request struct {
	Query     string
	Language  string // "en", "ms" or a language name; empty means English
	Role      models.Role
	RequestID string // Optional, generated when empty
}

// Result is the reply to a Request
type Result struct {
	Answer   string
	Outcome  Outcome
	Provider string // Strategy that produced the answer, if any
}

// Store is the record store access the pipeline needs
type Store interface {
	QueryStore
	knowledge.Source
}

// Concierge answers customer questions from the curated catalog
type Concierge struct {
	store      Store
	logger     *QueryLogger
	classifier *Classifier
	strategies []Strategy
	now        func() time.Time
}

// NewConcierge wires the pipeline. Strategies are tried in the given order.
func NewConcierge(s Store, classifier *Classifier, strategies ...Strategy) *Concierge {
	return &Concierge{
		store:      s,
		logger:     NewQueryLogger(s),
		classifier: classifier,
		strategies: strategies,
		now:        time.Now,
	}
}

// Strategies returns the names of the generation strategies in order
func (c *Concierge) Strategies() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Ask runs the full pipeline. It never fails: every error path ends in a
// fixed reply.
func (c *Concierge) Ask(ctx context.Context, req Request) (result Result) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	logger := logging.WithRequest(req.RequestID, string(role))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [CONCIERGE] panic while answering: %v\n%s", r, debug.Stack())
			result = Result{Answer: ApologyMessage, Outcome: OutcomeError}
		}
		conciergeRequests.WithLabelValues(string(result.Outcome)).Inc()
		conciergeLatency.Observe(time.Since(start).Seconds())
		logger.Info("concierge answered", "outcome", result.Outcome, "provider", result.Provider,
			"duration_ms", time.Since(start).Milliseconds())
	}()

	c.logger.Record(ctx, req.Query, c.now().UnixMilli())

	if role == models.RoleAdmin {
		return Result{Answer: AdminMessage, Outcome: OutcomeAdmin}
	}

	verdict := c.classifier.Classify(ctx, req.Query)
	if verdict.OutOfDomain && verdict.Response != "" {
		return Result{Answer: verdict.Response, Outcome: OutcomeRefused}
	}

	kb, err := knowledge.Build(ctx, c.store, false)
	if err != nil {
		logger.Warn("failed to build knowledge base", "error", err)
		return Result{Answer: ApologyMessage, Outcome: OutcomeError}
	}

	in := GenerationInput{
		Query:         req.Query,
		KnowledgeBase: kb,
		Language:      LanguageName(req.Language),
		Role:          role,
	}

	for _, s := range c.strategies {
		answer, err := s.Generate(ctx, in)
		if err == nil {
			return Result{Answer: answer, Outcome: OutcomeAnswered, Provider: s.Name()}
		}
		logger.Warn("generation strategy failed", "strategy", s.Name(), "error", err)
		providerFailures.WithLabelValues(s.Name(), "generate").Inc()
	}

	logger.Error("all generation strategies failed", "strategies", fmt.Sprint(c.Strategies()))
	return Result{Answer: ApologyMessage, Outcome: OutcomeError}
}
