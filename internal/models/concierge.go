package models

// Role identifies who is talking to the concierge
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ConciergeRequest is the public chat payload (HTTP and WebSocket)
type ConciergeRequest struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"` // "en", "ms" or a language name
}

// ConciergeResponse is returned for every chat message
type ConciergeResponse struct {
	Type       string `json:"type,omitempty"`
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html,omitempty"`
	Outcome    string `json:"outcome"`
}
