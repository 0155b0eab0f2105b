package middleware

import (
	"log"

	"fgperfume/internal/models"
	"fgperfume/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middleware
const (
	LocalUserRole     = "user_role"
	LocalAdminSubject = "admin_subject"
	LocalPrincipal    = "principal"
)

// bearerToken reads the token from the Authorization header, falling back to
// the "token" query parameter (for WebSocket connections)
func bearerToken(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		if token, err := auth.ExtractToken(authHeader); err == nil {
			return token
		}
	}
	return c.Query("token")
}

// SessionAuthMiddleware requires a valid session token
func SessionAuthMiddleware(sessions *auth.SessionAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid authorization token",
			})
		}

		principal, err := sessions.VerifyToken(token)
		if err != nil {
			log.Printf("❌ Auth failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalPrincipal, principal)
		c.Locals(LocalAdminSubject, principal.Subject)
		c.Locals(LocalUserRole, roleOf(principal))
		return c.Next()
	}
}

// OptionalAuthMiddleware marks callers with a valid admin token as ADMIN and
// everyone else as USER. It never rejects a request.
func OptionalAuthMiddleware(sessions *auth.SessionAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalUserRole, models.RoleUser)

		token := bearerToken(c)
		if token == "" || sessions == nil {
			return c.Next()
		}

		principal, err := sessions.VerifyToken(token)
		if err != nil {
			log.Printf("⚠️  Token validation failed: %v (continuing as customer)", err)
			return c.Next()
		}

		c.Locals(LocalPrincipal, principal)
		c.Locals(LocalUserRole, roleOf(principal))
		return c.Next()
	}
}

// RoleFrom returns the concierge role stored by the auth middleware
func RoleFrom(c *fiber.Ctx) models.Role {
	if role, ok := c.Locals(LocalUserRole).(models.Role); ok {
		return role
	}
	return models.RoleUser
}

func roleOf(p *auth.Principal) models.Role {
	if p.IsAdmin() {
		return models.RoleAdmin
	}
	return models.RoleUser
}
