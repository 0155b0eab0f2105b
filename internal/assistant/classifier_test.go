package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		query string
		want  Verdict
	}{
		{
			name: "in domain",
			raw:  `{"isOutOfDomain": false, "response": null}`,
			want: Verdict{},
		},
		{
			name: "out of domain with response",
			raw:  `{"isOutOfDomain": true, "response": "` + RefusalMessage + `"}`,
			want: Verdict{OutOfDomain: true, Response: RefusalMessage},
		},
		{
			name: "code fenced",
			raw:  "```json\n{\"isOutOfDomain\": false}\n```",
			want: Verdict{},
		},
		{
			name:  "not JSON uses heuristic (in domain)",
			raw:   "Sure! This is about perfume.",
			query: "Which perfume suits the evening?",
			want:  Verdict{},
		},
		{
			name:  "not JSON uses heuristic (out of domain)",
			raw:   "I think so",
			query: "How do I bake bread?",
			want:  Verdict{OutOfDomain: true, Response: RefusalMessage},
		},
		{
			name:  "missing isOutOfDomain fails closed",
			raw:   `{"response": "hello"}`,
			query: "perfume",
			want:  Verdict{OutOfDomain: true, Response: RefusalMessage},
		},
		{
			name:  "string isOutOfDomain fails closed",
			raw:   `{"isOutOfDomain": "false"}`,
			query: "perfume",
			want:  Verdict{OutOfDomain: true, Response: RefusalMessage},
		},
		{
			name:  "array fails closed",
			raw:   `[true]`,
			query: "perfume",
			want:  Verdict{OutOfDomain: true, Response: RefusalMessage},
		},
		{
			name: "non-string response is absent",
			raw:  `{"isOutOfDomain": true, "response": 42}`,
			want: Verdict{OutOfDomain: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVerdict(tt.raw, tt.query))
		})
	}
}

func TestHeuristicVerdict(t *testing.T) {
	for _, q := range []string{"FGPerfume hours?", "a fresh Scent", "fragrance notes", "best perfume"} {
		assert.False(t, heuristicVerdict(q).OutOfDomain, q)
	}
	assert.True(t, heuristicVerdict("weather today").OutOfDomain)
}

func TestClassifier_NilProviderUsesHeuristic(t *testing.T) {
	c := NewClassifier(nil, "")

	assert.False(t, c.Classify(context.Background(), "Tell me about your perfume").OutOfDomain)
	assert.Equal(t, RefusalMessage, c.Classify(context.Background(), "stock prices").Response)
}

func TestClassifierPrompt(t *testing.T) {
	p := classifierPrompt("Is Solis Dream citrusy?")
	assert.Contains(t, p, `{"isOutOfDomain": <true|false>, "response": <string or null>}`)
	assert.Contains(t, p, RefusalMessage)
	assert.Contains(t, p, "User Query: Is Solis Dream citrusy?")
}
