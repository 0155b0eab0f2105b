package handlers

import (
	"fgperfume/internal/assistant"
	"fgperfume/internal/document"
	"fgperfume/internal/health"
	"fgperfume/internal/jobs"
	"fgperfume/internal/middleware"
	"fgperfume/internal/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Dependencies is everything the HTTP surface needs
type Dependencies struct {
	Concierge    *assistant.Concierge
	Catalog      *services.CatalogService
	AdminAuth    *services.AdminAuthService
	ConnManager  *services.ConnectionManager
	Metrics      *services.Metrics
	Renderer     *document.Service
	Health       *health.Service
	Scheduler    *jobs.JobScheduler
	RateLimits   *middleware.RateLimitConfig
	StoreBackend string
}

// RegisterRoutes mounts every route on app
func RegisterRoutes(app *fiber.App, d Dependencies) {
	if d.ConnManager == nil {
		d.ConnManager = services.NewConnectionManager()
	}
	if d.RateLimits == nil {
		d.RateLimits = middleware.DefaultRateLimitConfig()
	}
	sessions := d.AdminAuth.Sessions()

	healthHandler := NewHealthHandler(d.ConnManager, d.Health, d.Scheduler, d.StoreBackend)
	chatHandler := NewChatHandler(d.Concierge, d.Renderer)
	wsHandler := NewWebSocketHandler(chatHandler, d.ConnManager, d.Metrics)
	catalogHandler := NewCatalogHandler(d.Catalog)
	adminHandler := NewAdminHandler(d.Catalog, d.AdminAuth, d.Metrics)

	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api", middleware.GlobalAPIRateLimiter(d.RateLimits))

	// Public
	api.Post("/chat",
		middleware.ChatRateLimiter(d.RateLimits),
		middleware.OptionalAuthMiddleware(sessions),
		chatHandler.Ask,
	)
	publicRead := middleware.PublicReadRateLimiter(d.RateLimits)
	api.Get("/brand", publicRead, catalogHandler.Brand)
	api.Get("/contact", publicRead, catalogHandler.Contact)
	api.Get("/perfumes", publicRead, catalogHandler.Perfumes)

	// Admin
	api.Post("/admin/login", adminHandler.Login)
	api.Get("/admin/me", middleware.OptionalAuthMiddleware(sessions), adminHandler.Me)

	admin := api.Group("/admin", middleware.SessionAuthMiddleware(sessions), middleware.AdminMiddleware())
	admin.Get("/perfumes", adminHandler.ListPerfumes)
	admin.Post("/perfumes", adminHandler.CreatePerfume)
	admin.Get("/perfumes/:id", adminHandler.GetPerfume)
	admin.Patch("/perfumes/:id", adminHandler.UpdatePerfume)
	admin.Put("/perfumes/:id", adminHandler.ReplacePerfume)
	admin.Delete("/perfumes/:id", adminHandler.DeletePerfume)
	admin.Put("/brand", adminHandler.UpdateBrand)
	admin.Put("/contact", adminHandler.UpdateContact)
	admin.Get("/queries", adminHandler.ListQueries)
	admin.Get("/queries/export", adminHandler.ExportQueries)

	// WebSocket
	app.Get("/ws/chat",
		middleware.WebSocketRateLimiter(d.RateLimits),
		middleware.OptionalAuthMiddleware(sessions),
		wsHandler.Upgrade,
		websocket.New(wsHandler.Handle, websocket.Config{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		}),
	)
}
