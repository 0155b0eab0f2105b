package health

import (
	"context"
	"time"
)

// HealthStatus represents the health state of a provider
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusCooldown  HealthStatus = "cooldown"
	StatusUnknown   HealthStatus = "unknown"
)

// Registered roles
const (
	RolePrimary  = "primary"
	RoleFallback = "fallback"
	RoleStore    = "store"
)

// ProviderHealth tracks the health of one completion provider or the record store
type ProviderHealth struct {
	Name          string       `json:"name"`
	Role          string       `json:"role"` // primary, fallback or store
	Model         string       `json:"model,omitempty"`
	Status        HealthStatus `json:"status"`
	LastChecked   time.Time    `json:"last_checked,omitempty"`
	LastSuccessAt time.Time    `json:"last_success_at,omitempty"`
	FailureCount  int          `json:"failure_count"`
	LastError     string       `json:"last_error,omitempty"`
	CooldownUntil time.Time    `json:"cooldown_until,omitempty"`
	LatencyMs     int64        `json:"latency_ms"`
}

// Prober performs a lightweight reachability check. llm.Pinger satisfies it.
type Prober interface {
	Ping(ctx context.Context) error
}
