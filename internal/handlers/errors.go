package handlers

import (
	"errors"
	"log"

	"fgperfume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto HTTP responses
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   verr.Fields,
		})
	case errors.Is(err, services.ErrPerfumeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Perfume not found",
		})
	default:
		log.Printf("❌ [%s %s] %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "Invalid request body",
	})
}
