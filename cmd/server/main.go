package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fgperfume/internal/assistant"
	"fgperfume/internal/config"
	"fgperfume/internal/document"
	"fgperfume/internal/handlers"
	"fgperfume/internal/health"
	"fgperfume/internal/jobs"
	"fgperfume/internal/logging"
	"fgperfume/internal/middleware"
	"fgperfume/internal/services"
	"fgperfume/internal/store"
	"fgperfume/pkg/auth"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting FGPerfume Concierge...")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Printf("📋 Configuration loaded (Port: %s, Env: %s, Store: %s)", cfg.Port, cfg.Environment, cfg.StoreBackend)

	ctx := context.Background()

	// Record store
	seed, err := store.LoadSeed(cfg.SeedFile)
	if err != nil {
		log.Fatalf("❌ Failed to load seed data: %v", err)
	}
	recordStore, err := store.Open(ctx, cfg, seed)
	if err != nil {
		log.Fatalf("❌ Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer recordStore.Close()
	log.Printf("✅ Record store ready (%s, fallback=%v)", cfg.StoreBackend, cfg.StoreFallback)

	// Completion providers and the concierge pipeline
	providers, err := assistant.NewProviders(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize providers: %v", err)
	}
	defer providers.Close()
	concierge := providers.Concierge(recordStore)
	log.Printf("✅ Concierge ready (strategies: %v)", concierge.Strategies())

	// Admin authentication
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = ephemeralSecret()
		log.Println("⚠️  JWT_SECRET not set, using a random secret (admin sessions end on restart)")
	}
	sessions, err := auth.NewSessionAuth(jwtSecret, cfg.AdminTokenTTL)
	if err != nil {
		log.Fatalf("❌ Failed to initialize session auth: %v", err)
	}
	adminAuth := services.NewAdminAuthService(sessions, cfg.AdminPasswordHash, cfg.AdminPassword)

	// Provider health
	healthService := health.NewService(3)
	healthService.RegisterProvider(health.RolePrimary, providers.Primary.Name(), providers.Primary.Model(), providers.Primary)
	if providers.Fallback != nil {
		var prober health.Prober
		if pinger, ok := providers.Fallback.(health.Prober); ok {
			prober = pinger
		}
		healthService.RegisterProvider(health.RoleFallback, providers.Fallback.Name(), "", prober)
	}
	if pinger, ok := store.AsPinger(recordStore); ok {
		healthService.RegisterProvider(health.RoleStore, cfg.StoreBackend, "", pinger)
	}

	jobScheduler, err := jobs.NewJobScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create job scheduler: %v", err)
	}
	checker := jobs.NewProviderHealthChecker(healthService, 2*time.Second)
	if err := jobScheduler.Register("provider_health", cfg.HealthCheckCron, checker); err != nil {
		log.Fatalf("❌ Invalid HEALTH_CHECK_CRON: %v", err)
	}
	jobScheduler.Start()
	go func() {
		if err := jobScheduler.RunNow(ctx, "provider_health"); err != nil {
			log.Printf("⚠️  Initial provider health check failed: %v", err)
		}
	}()

	connManager := services.NewConnectionManager()
	metrics := services.InitMetrics(connManager)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FGPerfume Concierge",
		ReadTimeout:  90 * time.Second,
		WriteTimeout: 150 * time.Second, // two sequential provider calls of up to 60s each
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("fgperfume")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	rateLimitConfig := middleware.LoadRateLimitConfig(cfg)
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Chat=%d/min, Public=%d/min, WS=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.ChatMax,
		rateLimitConfig.PublicReadMax,
		rateLimitConfig.WebSocketMax,
	)

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: cfg.AllowedOrigins != "*",
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", cfg.AllowedOrigins)

	handlers.RegisterRoutes(app, handlers.Dependencies{
		Concierge:    concierge,
		Catalog:      services.NewCatalogService(recordStore),
		AdminAuth:    adminAuth,
		ConnManager:  connManager,
		Metrics:      metrics,
		Renderer:     document.GetService(),
		Health:       healthService,
		Scheduler:    jobScheduler,
		RateLimits:   rateLimitConfig,
		StoreBackend: cfg.StoreBackend,
	})

	log.Printf("✅ Server ready on port %s", cfg.Port)
	log.Printf("💬 Chat endpoint: http://localhost:%s/api/chat", cfg.Port)
	log.Printf("🔌 WebSocket endpoint: ws://localhost:%s/ws/chat", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("🕐 Background jobs: provider health (%s)", cfg.HealthCheckCron)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		jobScheduler.Stop()

		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func ephemeralSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("❌ Failed to generate JWT secret: %v", err)
	}
	return hex.EncodeToString(b)
}
