package middleware

import (
	"fgperfume/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware checks that the authenticated caller holds the admin role.
// It must run after SessionAuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, ok := c.Locals(LocalAdminSubject).(string)
		if !ok || subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if RoleFrom(c) != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}
