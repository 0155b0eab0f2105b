package document

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Service renders concierge answers for display
type Service struct {
	md goldmark.Markdown
}

var (
	serviceInstance *Service
	serviceOnce     sync.Once
)

// GetService returns the singleton document service
func GetService() *Service {
	serviceOnce.Do(func() {
		serviceInstance = NewService()
	})
	return serviceInstance
}

// NewService creates a renderer. Raw HTML in answers is never passed through.
func NewService() *Service {
	return &Service{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // GitHub Flavored Markdown (includes Table, Strikethrough, Linkify, TaskList)
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// RenderAnswerHTML converts a Markdown answer into an HTML fragment
func (s *Service) RenderAnswerHTML(answer string) (string, error) {
	if strings.TrimSpace(answer) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(answer), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
