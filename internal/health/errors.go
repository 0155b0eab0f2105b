package health

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fgperfume/internal/llm"
)

var quotaPatterns = []string{
	"quota exceeded",
	"rate limit",
	"too many requests",
	"request limit",
	"tokens per minute",
	"requests per minute",
	"daily limit",
	"insufficient_quota",
	"billing",
	"rate_limit_exceeded",
	"quota_exceeded",
}

// providerDetails pulls the HTTP status and body out of a provider error
func providerDetails(err error) (int, string) {
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		return perr.StatusCode, err.Error()
	}
	return 0, err.Error()
}

// IsQuotaError detects if an error is related to quota exhaustion or rate limiting
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	statusCode, body := providerDetails(err)
	if statusCode == http.StatusTooManyRequests {
		return true
	}

	lowerBody := strings.ToLower(body)
	for _, pattern := range quotaPatterns {
		if strings.Contains(lowerBody, pattern) {
			return true
		}
	}
	return false
}

// CooldownFor determines the appropriate cooldown based on the error type
func CooldownFor(err error) time.Duration {
	statusCode, body := providerDetails(err)
	lowerBody := strings.ToLower(body)

	// Daily limit or billing issues - cool down for a long time
	if strings.Contains(lowerBody, "daily limit") ||
		strings.Contains(lowerBody, "billing") ||
		strings.Contains(lowerBody, "insufficient_quota") {
		return 24 * time.Hour
	}

	// Rate limit (per-minute) - short cooldown
	if statusCode == http.StatusTooManyRequests ||
		strings.Contains(lowerBody, "tokens per minute") ||
		strings.Contains(lowerBody, "requests per minute") {
		return 5 * time.Minute
	}

	return 1 * time.Hour
}
