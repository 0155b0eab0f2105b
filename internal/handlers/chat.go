package handlers

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"fgperfume/internal/assistant"
	"fgperfume/internal/document"
	"fgperfume/internal/middleware"
	"fgperfume/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MaxMessageLength caps a single customer question, in characters
const MaxMessageLength = 2000

// ChatHandler answers customer questions over HTTP
type ChatHandler struct {
	concierge *assistant.Concierge
	renderer  *document.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(concierge *assistant.Concierge, renderer *document.Service) *ChatHandler {
	if renderer == nil {
		renderer = document.GetService()
	}
	return &ChatHandler{concierge: concierge, renderer: renderer}
}

// validateMessage returns a client-facing problem with msg, or ""
func validateMessage(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return "Message is required"
	}
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return "Message is too long"
	}
	return ""
}

// Ask handles a single question
// POST /api/chat
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var req models.ConciergeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if problem := validateMessage(req.Message); problem != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   problem,
		})
	}

	requestID := c.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}

	resp := h.answer(c.UserContext(), req, middleware.RoleFrom(c), requestID)
	return c.JSON(resp)
}

// answer runs the concierge and renders the reply
func (h *ChatHandler) answer(ctx context.Context, req models.ConciergeRequest, role models.Role, requestID string) models.ConciergeResponse {
	result := h.concierge.Ask(ctx, assistant.Request{
		Query:     strings.TrimSpace(req.Message),
		Language:  req.Language,
		Role:      role,
		RequestID: requestID,
	})

	html, err := h.renderer.RenderAnswerHTML(result.Answer)
	if err != nil {
		log.Printf("⚠️  [CHAT] Failed to render answer %s: %v", requestID, err)
	}

	return models.ConciergeResponse{
		Answer:     result.Answer,
		AnswerHTML: html,
		Outcome:    string(result.Outcome),
	}
}
