package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/admin"
)

type AdminHandler struct {
	Admin *admin.Service
}

func NewAdminHandler(svc *admin.Service) *AdminHandler {
	return &AdminHandler{Admin: svc}
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Admin.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, stats)
}
