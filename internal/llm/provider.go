// Package llm contains the completion provider adapters used by the concierge.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned when a provider is called without credentials
var ErrMissingAPIKey = errors.New("API key is not configured")

// Options tune a single completion. Zero values select provider defaults.
type Options struct {
	Temperature *float64
	MaxTokens   int
	Model       string
}

// Temperature is a helper for Options.Temperature
func Temperature(t float64) *float64 { return &t }

// Provider turns a prompt into completion text
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Pinger is implemented by providers that support a cheap reachability probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderError describes a failed provider call
type ProviderError struct {
	Provider   string
	StatusCode int    // 0 when no HTTP response was received
	Body       string // Raw response body, truncated
	Err        error
}

func (e *ProviderError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Provider)
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status %d", e.StatusCode)
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	if e.Body != "" {
		sb.WriteString(": " + e.Body)
	}
	return sb.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

const maxErrorBody = 512

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}

// StripCodeFence removes ```json ... ``` wrapping that some LLMs add
// even when asked for bare JSON.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

// structuredAnswer is the response shape requested in structured mode
type structuredAnswer struct {
	Answer *string `json:"answer"`
}

// ParseStructuredAnswer extracts the "answer" field from a structured reply
func ParseStructuredAnswer(text string) (string, error) {
	var out structuredAnswer
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &out); err != nil {
		return "", fmt.Errorf("failed to parse structured answer: %w", err)
	}
	if out.Answer == nil {
		return "", errors.New("structured answer has no answer field")
	}
	return *out.Answer, nil
}
