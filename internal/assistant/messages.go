// Package assistant implements the concierge pipeline: query logging,
// domain classification, knowledge base assembly and answer generation.
package assistant

import "strings"

// Fixed replies. These are returned verbatim and never generated.
const (
	RefusalMessage = "FGPerfume AI is dedicated exclusively to FGPerfume and its creations. I’m unable to assist with that request."
	AdminMessage   = "Admin role does not interact with the AI."
	ApologyMessage = "I apologize, but I encountered an error processing your request. Please try again."
	NoInfoMessage  = "I’m sorry, I don’t have information about that yet."
)

// Outcome says how a query was answered
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"
	OutcomeRefused  Outcome = "refused"
	OutcomeAdmin    Outcome = "admin"
	OutcomeError    Outcome = "error"
)

// LanguageName maps a language code to the name used in prompts.
// Unknown values are treated as a language name already.
func LanguageName(code string) string {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "", "en":
		return "English"
	case "ms":
		return "Malay"
	}
	return strings.TrimSpace(code)
}
