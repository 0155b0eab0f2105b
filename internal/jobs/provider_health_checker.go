package jobs

import (
	"context"
	"log"
	"time"

	"fgperfume/internal/health"
)

// ProviderHealthChecker probes every role registered with the health service
type ProviderHealthChecker struct {
	healthService *health.Service
	pause         time.Duration
}

// NewProviderHealthChecker creates a new provider health checker job. pause
// separates consecutive probes.
func NewProviderHealthChecker(healthService *health.Service, pause time.Duration) *ProviderHealthChecker {
	return &ProviderHealthChecker{
		healthService: healthService,
		pause:         pause,
	}
}

// Run probes each provider once
func (p *ProviderHealthChecker) Run(ctx context.Context) error {
	roles := p.healthService.Roles()
	log.Printf("[HEALTH-JOB] Checking %d provider(s)...", len(roles))

	totalHealthy := 0
	totalFailed := 0

	for i, role := range roles {
		if i > 0 && p.pause > 0 {
			select {
			case <-ctx.Done():
				log.Println("[HEALTH-JOB] Cancelled")
				return ctx.Err()
			case <-time.After(p.pause):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.healthService.CheckProvider(ctx, role); err != nil {
			totalFailed++
			log.Printf("[HEALTH-JOB] %s: FAILED (%v)", role, err)
		} else {
			totalHealthy++
		}
	}

	log.Printf("[HEALTH-JOB] Health checks complete: %d checked, %d ok, %d failed",
		len(roles), totalHealthy, totalFailed)
	return nil
}
