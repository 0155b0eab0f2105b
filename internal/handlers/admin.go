package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fgperfume/internal/middleware"
	"fgperfume/internal/models"
	"fgperfume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the admin API
type AdminHandler struct {
	catalog *services.CatalogService
	auth    *services.AdminAuthService
	metrics *services.Metrics
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(catalog *services.CatalogService, auth *services.AdminAuthService, metrics *services.Metrics) *AdminHandler {
	return &AdminHandler{catalog: catalog, auth: auth, metrics: metrics}
}

// LoginRequest is the admin login payload
type LoginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the admin password for a session token
// POST /api/admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"password": "Password is required"},
		})
	}

	token, expiresAt, err := h.auth.Login(c.IP(), req.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrTooManyAttempts):
		h.metrics.RecordAdminLogin("locked")
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success":     false,
			"error":       "Too many failed login attempts. Please try again later.",
			"retry_after": int(services.LoginLockoutWindow.Seconds()),
		})
	case errors.Is(err, services.ErrInvalidPassword):
		h.metrics.RecordAdminLogin("invalid")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid password",
		})
	case errors.Is(err, services.ErrAdminNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Admin login is not configured",
		})
	default:
		log.Printf("❌ [ADMIN] Login failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Login failed",
		})
	}

	h.metrics.RecordAdminLogin("success")
	return c.JSON(fiber.Map{
		"success":    true,
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

// Me reports whether the caller holds a valid admin session
// GET /api/admin/me
func (h *AdminHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"authenticated": middleware.RoleFrom(c) == models.RoleAdmin,
	})
}

// ListPerfumes returns every perfume, hidden ones included
// GET /api/admin/perfumes
func (h *AdminHandler) ListPerfumes(c *fiber.Ctx) error {
	perfumes, err := h.catalog.ListPerfumes(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"perfumes": perfumes,
		"total":    len(perfumes),
	})
}

// GetPerfume returns one perfume
// GET /api/admin/perfumes/:id
func (h *AdminHandler) GetPerfume(c *fiber.Ctx) error {
	p, err := h.catalog.GetPerfume(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// CreatePerfume adds a perfume
// POST /api/admin/perfumes
func (h *AdminHandler) CreatePerfume(c *fiber.Ctx) error {
	var form services.PerfumeForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c)
	}

	p, err := h.catalog.AddPerfume(c.UserContext(), form)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.RecordCatalogMutation("perfume_create")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"perfume": p,
	})
}

// UpdatePerfume merges the given fields onto a perfume
// PATCH /api/admin/perfumes/:id
func (h *AdminHandler) UpdatePerfume(c *fiber.Ctx) error {
	var form services.PerfumePatchForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c)
	}

	p, err := h.catalog.UpdatePerfume(c.UserContext(), c.Params("id"), form)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.RecordCatalogMutation("perfume_update")
	return c.JSON(fiber.Map{
		"success": true,
		"perfume": p,
	})
}

// ReplacePerfume overwrites a perfume with a full form
// PUT /api/admin/perfumes/:id
func (h *AdminHandler) ReplacePerfume(c *fiber.Ctx) error {
	var form services.PerfumeForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c)
	}

	p, err := h.catalog.ReplacePerfume(c.UserContext(), c.Params("id"), form)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.RecordCatalogMutation("perfume_replace")
	return c.JSON(fiber.Map{
		"success": true,
		"perfume": p,
	})
}

// DeletePerfume removes a perfume
// DELETE /api/admin/perfumes/:id
func (h *AdminHandler) DeletePerfume(c *fiber.Ctx) error {
	if err := h.catalog.DeletePerfume(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	h.metrics.RecordCatalogMutation("perfume_delete")
	return c.JSON(fiber.Map{"success": true})
}

// UpdateBrand overwrites the brand story
// PUT /api/admin/brand
func (h *AdminHandler) UpdateBrand(c *fiber.Ctx) error {
	var info models.BrandInfo
	if err := c.BodyParser(&info); err != nil {
		return invalidBody(c)
	}

	saved, err := h.catalog.UpdateBrandInfo(c.UserContext(), info)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.RecordCatalogMutation("brand_update")
	return c.JSON(fiber.Map{
		"success": true,
		"brand":   saved,
	})
}

// UpdateContact overwrites the contact details
// PUT /api/admin/contact
func (h *AdminHandler) UpdateContact(c *fiber.Ctx) error {
	var info models.ContactInfo
	if err := c.BodyParser(&info); err != nil {
		return invalidBody(c)
	}

	saved, err := h.catalog.UpdateContactInfo(c.UserContext(), info)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.RecordCatalogMutation("contact_update")
	return c.JSON(fiber.Map{
		"success": true,
		"contact": saved,
	})
}

// ListQueries returns the logged customer questions, newest first
// GET /api/admin/queries
func (h *AdminHandler) ListQueries(c *fiber.Ctx) error {
	logs, err := h.catalog.ListQueryLogs(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		filtered := logs[:0:0]
		for _, entry := range logs {
			if strings.Contains(strings.ToLower(entry.Query), q) {
				filtered = append(filtered, entry)
			}
		}
		logs = filtered
	}

	return c.JSON(fiber.Map{
		"queries": logs,
		"total":   len(logs),
	})
}

// ExportQueries downloads the query log as an XLSX workbook
// GET /api/admin/queries/export
func (h *AdminHandler) ExportQueries(c *fiber.Ctx) error {
	data, err := h.catalog.ExportQueryLogsXLSX(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("fgperfume-queries-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
