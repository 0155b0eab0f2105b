package handlers

import (
	"time"

	"fgperfume/internal/health"
	"fgperfume/internal/jobs"
	"fgperfume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	connManager  *services.ConnectionManager
	health       *health.Service
	scheduler    *jobs.JobScheduler
	storeBackend string
}

// NewHealthHandler creates a new health handler. health and scheduler may be nil.
func NewHealthHandler(connManager *services.ConnectionManager, healthService *health.Service, scheduler *jobs.JobScheduler, storeBackend string) *HealthHandler {
	return &HealthHandler{
		connManager:  connManager,
		health:       healthService,
		scheduler:    scheduler,
		storeBackend: storeBackend,
	}
}

// Handle responds with server health status
// GET /health
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":      "healthy",
		"store":       h.storeBackend,
		"connections": h.connManager.Count(),
		"timestamp":   time.Now().Format(time.RFC3339),
	}
	if h.health != nil {
		resp["providers"] = h.health.Snapshot()
		resp["provider_summary"] = h.health.GetStatus()
		if st, ok := h.health.Get(health.RoleStore); ok {
			resp["store_status"] = st.Status
		}
		if !h.health.IsHealthy(health.RolePrimary) || !h.health.IsHealthy(health.RoleStore) {
			resp["status"] = "degraded"
		}
	}
	if h.scheduler != nil {
		resp["jobs"] = h.scheduler.GetStatus()
	}
	return c.JSON(resp)
}
