package middleware

import (
	"log"
	"time"

	"fgperfume/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP)
	GlobalAPIMax        int           // Max requests per minute for all API endpoints
	GlobalAPIExpiration time.Duration // Expiration window

	// Concierge questions (per IP), each one may cost two LLM calls
	ChatMax        int
	ChatExpiration time.Duration

	// Public catalog reads (per IP)
	PublicReadMax        int
	PublicReadExpiration time.Duration

	// WebSocket/Connection limits (per IP)
	WebSocketMax        int
	WebSocketExpiration time.Duration
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Global: 200/min = ~3.3 req/sec
		GlobalAPIMax:        200,
		GlobalAPIExpiration: 1 * time.Minute,

		ChatMax:        20,
		ChatExpiration: 1 * time.Minute,

		PublicReadMax:        120,
		PublicReadExpiration: 1 * time.Minute,

		WebSocketMax:        20,
		WebSocketExpiration: 1 * time.Minute,
	}
}

// LoadRateLimitConfig applies the limits from cfg on top of the defaults
func LoadRateLimitConfig(cfg *config.Config) *RateLimitConfig {
	rl := DefaultRateLimitConfig()

	if cfg.RateLimitGlobalAPI > 0 {
		rl.GlobalAPIMax = cfg.RateLimitGlobalAPI
	}
	if cfg.RateLimitChat > 0 {
		rl.ChatMax = cfg.RateLimitChat
	}

	// Development mode: more lenient limits
	if cfg.Environment == "development" {
		rl.GlobalAPIMax = 1000
		rl.WebSocketMax = 100
		log.Println("⚠️  [RATE-LIMIT] Development mode: using relaxed rate limits")
	}

	return rl
}

// GlobalAPIRateLimiter creates a rate limiter for all API requests
func GlobalAPIRateLimiter(rl *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        rl.GlobalAPIMax,
		Expiration: rl.GlobalAPIExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] Global limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests. Please slow down.",
				"retry_after": int(rl.GlobalAPIExpiration.Seconds()),
			})
		},
	})
}

// ChatRateLimiter limits concierge questions
func ChatRateLimiter(rl *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        rl.ChatMax,
		Expiration: rl.ChatExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "chat:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Chat limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many questions. Please wait a moment before asking again.",
				"retry_after": int(rl.ChatExpiration.Seconds()),
			})
		},
	})
}

// PublicReadRateLimiter for public read-only endpoints
func PublicReadRateLimiter(rl *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        rl.PublicReadMax,
		Expiration: rl.PublicReadExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "public:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Public endpoint limit reached for IP: %s on %s", c.IP(), c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests to this endpoint.",
				"retry_after": int(rl.PublicReadExpiration.Seconds()),
			})
		},
	})
}

// WebSocketRateLimiter for WebSocket connection attempts
func WebSocketRateLimiter(rl *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        rl.WebSocketMax,
		Expiration: rl.WebSocketExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "ws:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] WebSocket connection limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many connection attempts. Please wait before reconnecting.",
				"retry_after": int(rl.WebSocketExpiration.Seconds()),
			})
		},
	})
}
