package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"fgperfume/internal/knowledge"
	"fgperfume/internal/llm"
	"fgperfume/internal/models"
	"fgperfume/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider replies from a queue of canned responses
type fakeProvider struct {
	name    string
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
	opts    []llm.Options
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no reply queued")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

var errUpstream = &llm.ProviderError{Provider: "fake", StatusCode: 503, Err: errors.New("API error")}

// trackingStore counts knowledge base reads
type trackingStore struct {
	*store.MemoryStore
	perfumeReads int
	failReads    bool
}

func (s *trackingStore) ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error) {
	s.perfumeReads++
	if s.failReads {
		return nil, errors.New("db down")
	}
	return s.MemoryStore.ListPerfumes(ctx, includeHidden)
}

func noirOnlyStore() *trackingStore {
	return &trackingStore{MemoryStore: store.NewMemoryStore(store.Seed{
		Perfumes: []models.Perfume{{
			ID:           "1",
			Name:         "Noir Essence",
			Price:        250,
			Availability: models.AvailabilityInStock,
			IsVisible:    true,
		}},
	})}
}

func queryLogs(t *testing.T, s store.Store) []models.UserQueryLog {
	t.Helper()
	logs, err := s.ListQueryLogs(context.Background())
	require.NoError(t, err)
	return logs
}

func TestAsk_AnswersFromPrimaryProvider(t *testing.T) {
	s := noirOnlyStore()
	classifierLLM := &fakeProvider{name: "classifier", replies: []string{`{"isOutOfDomain": false, "response": null}`}}
	primary := &fakeProvider{name: "openrouter", replies: []string{"Noir Essence is..."}}
	fallback := &fakeProvider{name: "gemini"}

	c := NewConcierge(s, NewClassifier(classifierLLM, "classifier-model"),
		NewConciergeStrategy(primary), NewStructuredStrategy(fallback))

	res := c.Ask(context.Background(), Request{Query: "Tell me about Noir Essence"})

	assert.Equal(t, "Noir Essence is...", res.Answer)
	assert.Equal(t, OutcomeAnswered, res.Outcome)
	assert.Equal(t, "concierge/openrouter", res.Provider)
	assert.Zero(t, fallback.calls())

	logs := queryLogs(t, s)
	require.Len(t, logs, 1)
	assert.Equal(t, "Tell me about Noir Essence", logs[0].Query)

	require.Equal(t, 1, primary.calls())
	prompt := primary.prompts[0]
	assert.Contains(t, prompt, "You MUST respond in English")
	assert.Contains(t, prompt, "User Question: Tell me about Noir Essence")
	snap, err := knowledge.Extract(prompt[:strings.LastIndex(prompt, "User Question:")])
	require.NoError(t, err)
	require.Len(t, snap.Perfumes, 1)
	assert.Equal(t, "1", snap.Perfumes[0].ID)

	require.Len(t, classifierLLM.opts, 1)
	require.NotNil(t, classifierLLM.opts[0].Temperature)
	assert.Zero(t, *classifierLLM.opts[0].Temperature)
	assert.Equal(t, "classifier-model", classifierLLM.opts[0].Model)
}

func TestAsk_OutOfDomainIsRefusedWithoutKnowledgeBase(t *testing.T) {
	s := noirOnlyStore()
	classifierLLM := &fakeProvider{name: "classifier", replies: []string{
		"```json\n{\"isOutOfDomain\": true, \"response\": \"Custom refusal\"}\n```",
	}}
	primary := &fakeProvider{name: "openrouter", replies: []string{"should not be used"}}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""), NewConciergeStrategy(primary))
	res := c.Ask(context.Background(), Request{Query: "Who won the football match?"})

	assert.Equal(t, "Custom refusal", res.Answer)
	assert.Equal(t, OutcomeRefused, res.Outcome)
	assert.Zero(t, primary.calls())
	assert.Zero(t, s.perfumeReads)
	assert.Len(t, queryLogs(t, s), 1)
}

func TestAsk_ClassifierFailureWithoutKeywordIsRefused(t *testing.T) {
	s := noirOnlyStore()
	classifierLLM := &fakeProvider{name: "classifier", err: errUpstream}
	primary := &fakeProvider{name: "openrouter", replies: []string{"should not be used"}}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""), NewConciergeStrategy(primary))
	res := c.Ask(context.Background(), Request{Query: "What is the capital of France?"})

	assert.Equal(t, RefusalMessage, res.Answer)
	assert.Equal(t, OutcomeRefused, res.Outcome)
	assert.Zero(t, primary.calls())
	assert.Zero(t, s.perfumeReads)
}

func TestAsk_ClassifierFailureWithKeywordProceeds(t *testing.T) {
	s := noirOnlyStore()
	classifierLLM := &fakeProvider{name: "classifier", err: errUpstream}
	primary := &fakeProvider{name: "openrouter", replies: []string{"Our fragrances..."}}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""), NewConciergeStrategy(primary))
	res := c.Ask(context.Background(), Request{Query: "Which FRAGRANCE lasts longest?"})

	assert.Equal(t, "Our fragrances...", res.Answer)
	assert.Equal(t, OutcomeAnswered, res.Outcome)
}

func TestAsk_AllProvidersFail(t *testing.T) {
	s := noirOnlyStore()
	classifierLLM := &fakeProvider{name: "classifier", replies: []string{`{"isOutOfDomain":false}`}}
	primary := &fakeProvider{name: "openrouter", err: errUpstream}
	fallback := &fakeProvider{name: "gemini", err: errUpstream}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""),
		NewConciergeStrategy(primary), NewStructuredStrategy(fallback))
	res := c.Ask(context.Background(), Request{Query: "Tell me about Noir Essence perfume"})

	assert.Equal(t, ApologyMessage, res.Answer)
	assert.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, 1, primary.calls())
	assert.Equal(t, 1, fallback.calls())

	logs := queryLogs(t, s)
	require.Len(t, logs, 1)
	assert.Equal(t, "Tell me about Noir Essence perfume", logs[0].Query)
}

func TestAsk_FallbackGetsEquivalentGroundedPrompt(t *testing.T) {
	s := noirOnlyStore()
	classifierLLM := &fakeProvider{name: "classifier", replies: []string{`{"isOutOfDomain":false}`}}
	primary := &fakeProvider{name: "openrouter", err: errUpstream}
	fallback := &fakeProvider{name: "gemini", replies: []string{"Noir Essence adalah..."}}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""),
		NewConciergeStrategy(primary), NewStructuredStrategy(fallback))
	res := c.Ask(context.Background(), Request{Query: "Ceritakan tentang Noir Essence", Language: "ms"})

	assert.Equal(t, "Noir Essence adalah...", res.Answer)
	assert.Equal(t, "structured/gemini", res.Provider)

	require.Equal(t, 1, fallback.calls())
	prompt := fallback.prompts[0]
	assert.Contains(t, prompt, "The user requested language: Malay.")
	assert.Contains(t, prompt, "The user role is USER.")
	assert.Contains(t, prompt, knowledge.DataLabel)
	assert.Contains(t, prompt, `"name": "Noir Essence"`)
	assert.Contains(t, prompt, "Ceritakan tentang Noir Essence")
	assert.Contains(t, prompt, NoInfoMessage)
	assert.Contains(t, prompt, RefusalMessage)
}

func TestAsk_AdminShortCircuits(t *testing.T) {
	s := noirOnlyStore()
	classifierLLM := &fakeProvider{name: "classifier", replies: []string{`{"isOutOfDomain":false}`}}
	primary := &fakeProvider{name: "openrouter", replies: []string{"x"}}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""), NewConciergeStrategy(primary))
	res := c.Ask(context.Background(), Request{Query: "List perfumes", Role: models.RoleAdmin})

	assert.Equal(t, AdminMessage, res.Answer)
	assert.Equal(t, OutcomeAdmin, res.Outcome)
	assert.Zero(t, classifierLLM.calls())
	assert.Zero(t, primary.calls())
	assert.Len(t, queryLogs(t, s), 1)
}

// eventStore records pipeline steps in the order they hit the store
type eventStore struct {
	*store.MemoryStore
	events *[]string
}

func (s eventStore) AddQueryLog(ctx context.Context, query string, ts int64) (models.UserQueryLog, error) {
	*s.events = append(*s.events, "log")
	return s.MemoryStore.AddQueryLog(ctx, query, ts)
}

func (s eventStore) ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error) {
	*s.events = append(*s.events, "kb")
	return s.MemoryStore.ListPerfumes(ctx, includeHidden)
}

// stepProvider records its call and what the store held at that moment
type stepProvider struct {
	step       string
	reply      string
	events     *[]string
	store      store.Store
	logsAtCall []int
}

func (p *stepProvider) Name() string { return p.step }

func (p *stepProvider) Complete(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	*p.events = append(*p.events, p.step)
	logs, err := p.store.ListQueryLogs(ctx)
	if err != nil {
		return "", err
	}
	p.logsAtCall = append(p.logsAtCall, len(logs))
	return p.reply, nil
}

func TestAsk_LogsBeforeClassifying(t *testing.T) {
	var events []string
	s := eventStore{MemoryStore: store.NewMemoryStore(store.DefaultSeed()), events: &events}
	classifierLLM := &stepProvider{step: "classify", reply: `{"isOutOfDomain": false, "response": null}`, events: &events, store: s}
	primary := &stepProvider{step: "generate", reply: "Noir Essence suits evenings.", events: &events, store: s}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""), NewConciergeStrategy(primary))
	res := c.Ask(context.Background(), Request{Query: "Which perfume for evenings?"})

	assert.Equal(t, OutcomeAnswered, res.Outcome)
	assert.Equal(t, []string{"log", "classify", "kb", "generate"}, events)
	assert.Equal(t, []int{1}, classifierLLM.logsAtCall, "query is logged before the classifier runs")
	assert.Equal(t, []int{1}, primary.logsAtCall)
}

func TestAsk_AdminIsLoggedBeforeShortCircuit(t *testing.T) {
	var events []string
	s := eventStore{MemoryStore: store.NewMemoryStore(store.DefaultSeed()), events: &events}
	classifierLLM := &stepProvider{step: "classify", reply: `{"isOutOfDomain": false}`, events: &events, store: s}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""), NewConciergeStrategy(classifierLLM))
	res := c.Ask(context.Background(), Request{Query: "List perfumes", Role: models.RoleAdmin})

	assert.Equal(t, OutcomeAdmin, res.Outcome)
	assert.Equal(t, []string{"log"}, events)
	logs := queryLogs(t, s)
	require.Len(t, logs, 1)
	assert.Equal(t, "List perfumes", logs[0].Query)
}

func TestAsk_KnowledgeBaseErrorYieldsApology(t *testing.T) {
	s := noirOnlyStore()
	s.failReads = true
	primary := &fakeProvider{name: "openrouter", replies: []string{"x"}}

	c := NewConcierge(s, NewClassifier(nil, ""), NewConciergeStrategy(primary))
	res := c.Ask(context.Background(), Request{Query: "perfume list"})

	assert.Equal(t, ApologyMessage, res.Answer)
	assert.Equal(t, OutcomeError, res.Outcome)
	assert.Zero(t, primary.calls())
}

func TestAsk_OutOfDomainWithoutResponseContinues(t *testing.T) {
	s := noirOnlyStore()
	classifierLLM := &fakeProvider{name: "classifier", replies: []string{`{"isOutOfDomain":true,"response":null}`}}
	primary := &fakeProvider{name: "openrouter", replies: []string{"answered anyway"}}

	c := NewConcierge(s, NewClassifier(classifierLLM, ""), NewConciergeStrategy(primary))
	res := c.Ask(context.Background(), Request{Query: "hello"})

	assert.Equal(t, "answered anyway", res.Answer)
	assert.Equal(t, 1, s.perfumeReads)
}

func TestAsk_QueryLogFailureDoesNotBreakPipeline(t *testing.T) {
	s := &failingLogStore{trackingStore: noirOnlyStore()}
	primary := &fakeProvider{name: "openrouter", replies: []string{"fine"}}

	c := NewConcierge(s, NewClassifier(nil, ""), NewConciergeStrategy(primary))
	res := c.Ask(context.Background(), Request{Query: "perfume?"})

	assert.Equal(t, "fine", res.Answer)
}

type failingLogStore struct{ *trackingStore }

func (failingLogStore) AddQueryLog(context.Context, string, int64) (models.UserQueryLog, error) {
	return models.UserQueryLog{}, errors.New("disk full")
}

func TestAsk_RecoversFromPanics(t *testing.T) {
	s := noirOnlyStore()
	c := NewConcierge(s, nil, NewConciergeStrategy(&fakeProvider{name: "x"}))

	res := c.Ask(context.Background(), Request{Query: "perfume"})
	assert.Equal(t, ApologyMessage, res.Answer)
	assert.Equal(t, OutcomeError, res.Outcome)
}

func TestAsk_PriceUpdateIsReflected(t *testing.T) {
	ctx := context.Background()
	s := noirOnlyStore()
	price := 199.0

	_, err := s.UpdatePerfume(ctx, "1", models.PerfumePatch{Price: &price})
	require.NoError(t, err)

	doc, err := knowledge.Build(ctx, s, false)
	require.NoError(t, err)
	snap, err := knowledge.Extract(doc)
	require.NoError(t, err)

	require.Len(t, snap.Perfumes, 1)
	assert.Equal(t, 199.0, snap.Perfumes[0].Price)
	assert.Equal(t, "Noir Essence", snap.Perfumes[0].Name)
	assert.Equal(t, models.AvailabilityInStock, snap.Perfumes[0].Availability)
	assert.True(t, snap.Perfumes[0].IsVisible)
	assert.Contains(t, doc, "- Price: MYR 199\n")
}

func TestStructuredStrategy_AdminGuard(t *testing.T) {
	p := &fakeProvider{name: "gemini", replies: []string{"x"}}
	s := NewStructuredStrategy(p)

	answer, err := s.Generate(context.Background(), GenerationInput{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, AdminMessage, answer)
	assert.Zero(t, p.calls())
}

func TestPromptStrategy_NilProvider(t *testing.T) {
	s := NewStructuredStrategy(nil)
	assert.Equal(t, "structured", s.Name())

	_, err := s.Generate(context.Background(), GenerationInput{Role: models.RoleUser})
	assert.Error(t, err)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", LanguageName(""))
	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "Malay", LanguageName("MS"))
	assert.Equal(t, "Japanese", LanguageName("Japanese"))
}
