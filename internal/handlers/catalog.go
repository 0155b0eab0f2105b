package handlers

import (
	"fgperfume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the public, read-only catalog
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Brand returns the brand story
// GET /api/brand
func (h *CatalogHandler) Brand(c *fiber.Ctx) error {
	info, err := h.catalog.GetBrandInfo(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(info)
}

// Contact returns the contact details
// GET /api/contact
func (h *CatalogHandler) Contact(c *fiber.Ctx) error {
	info, err := h.catalog.GetContactInfo(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(info)
}

// Perfumes lists visible perfumes
// GET /api/perfumes
func (h *CatalogHandler) Perfumes(c *fiber.Ctx) error {
	perfumes, err := h.catalog.ListVisiblePerfumes(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"perfumes": perfumes,
		"total":    len(perfumes),
	})
}
