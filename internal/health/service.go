package health

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultFailureThreshold = 3
	defaultProbeTimeout     = 15 * time.Second
)

var providerUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "fgperfume_provider_up",
	Help: "1 when the last probe of a completion provider succeeded, 0 otherwise",
}, []string{"provider", "role"})

type entry struct {
	health ProviderHealth
	prober Prober
}

// Service tracks the reachability of the completion providers and the record store
type Service struct {
	mu               sync.RWMutex
	entries          map[string]*entry // key: role
	failureThreshold int
	probeTimeout     time.Duration
}

// NewService creates a new health service
func NewService(failureThreshold int) *Service {
	if failureThreshold <= 0 {
		failureThreshold = defaultFailureThreshold
	}
	return &Service{
		entries:          make(map[string]*entry),
		failureThreshold: failureThreshold,
		probeTimeout:     defaultProbeTimeout,
	}
}

// RegisterProvider adds a provider under role. A nil prober is tracked but
// never probed.
func (s *Service) RegisterProvider(role, name, model string, prober Prober) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[role]; exists {
		return
	}
	s.entries[role] = &entry{
		health: ProviderHealth{Name: name, Role: role, Model: model, Status: StatusUnknown},
		prober: prober,
	}
	log.Printf("[HEALTH] Registered %s provider %s model=%s", role, name, model)
}

// Roles returns the registered roles in name order
func (s *Service) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]string, 0, len(s.entries))
	for role := range s.entries {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Get returns a copy of the health entry for role
func (s *Service) Get(role string) (ProviderHealth, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[role]
	if !ok {
		return ProviderHealth{}, false
	}
	return e.health, true
}

// IsHealthy reports whether role may be used. Unknown roles count as healthy.
func (s *Service) IsHealthy(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[role]
	if !ok {
		return true
	}
	switch e.health.Status {
	case StatusUnhealthy:
		return false
	case StatusCooldown:
		return time.Now().After(e.health.CooldownUntil)
	default:
		return true
	}
}

// MarkHealthy records a successful probe
func (s *Service) MarkHealthy(role string, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[role]
	if !ok {
		return
	}
	h := &e.health
	wasUnhealthy := h.Status == StatusUnhealthy || h.Status == StatusCooldown
	now := time.Now()
	h.Status = StatusHealthy
	h.FailureCount = 0
	h.LastError = ""
	h.LastSuccessAt = now
	h.LastChecked = now
	h.CooldownUntil = time.Time{}
	h.LatencyMs = latency.Milliseconds()
	providerUp.WithLabelValues(h.Name, role).Set(1)

	if wasUnhealthy {
		log.Printf("[HEALTH] %s provider %s recovered - now healthy", role, h.Name)
	}
}

// MarkUnhealthy records a failure. After reaching the threshold, the provider is marked unhealthy.
func (s *Service) MarkUnhealthy(role string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[role]
	if !ok {
		return
	}
	h := &e.health
	h.FailureCount++
	h.LastError = truncateStr(err.Error(), 200)
	h.LastChecked = time.Now()
	providerUp.WithLabelValues(h.Name, role).Set(0)

	if IsQuotaError(err) {
		h.Status = StatusCooldown
		h.CooldownUntil = time.Now().Add(CooldownFor(err))
		log.Printf("[HEALTH] %s provider %s in COOLDOWN until %s (reason: %s)",
			role, h.Name, h.CooldownUntil.Format(time.RFC3339), truncateStr(h.LastError, 100))
		return
	}

	if h.FailureCount >= s.failureThreshold {
		h.Status = StatusUnhealthy
		log.Printf("[HEALTH] %s provider %s marked UNHEALTHY after %d failures: %s",
			role, h.Name, h.FailureCount, h.LastError)
	} else {
		log.Printf("[HEALTH] %s provider %s failure %d/%d: %s",
			role, h.Name, h.FailureCount, s.failureThreshold, h.LastError)
	}
}

// CheckProvider probes role once and records the result
func (s *Service) CheckProvider(ctx context.Context, role string) error {
	s.mu.RLock()
	e, ok := s.entries[role]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("provider not registered: %s", role)
	}
	if e.prober == nil {
		return nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	start := time.Now()
	if err := e.prober.Ping(probeCtx); err != nil {
		s.MarkUnhealthy(role, err)
		return err
	}
	s.MarkHealthy(role, time.Since(start))
	return nil
}

// Snapshot returns every entry ordered by role
func (s *Service) Snapshot() []ProviderHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ProviderHealth, 0, len(s.entries))
	for _, e := range s.entries {
		result = append(result, e.health)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Role < result[j].Role })
	return result
}

// GetStatus returns health counts by status
func (s *Service) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int{"healthy": 0, "unhealthy": 0, "cooldown": 0, "unknown": 0}
	for _, e := range s.entries {
		switch e.health.Status {
		case StatusHealthy:
			counts["healthy"]++
		case StatusUnhealthy:
			counts["unhealthy"]++
		case StatusCooldown:
			if time.Now().After(e.health.CooldownUntil) {
				counts["unknown"]++
			} else {
				counts["cooldown"]++
			}
		default:
			counts["unknown"]++
		}
	}

	return map[string]interface{}{
		"total":    len(s.entries),
		"statuses": counts,
	}
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
