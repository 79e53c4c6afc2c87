package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

type SkillHandler struct {
	Store *repository.Store
}

func NewSkillHandler(store *repository.Store) *SkillHandler {
	return &SkillHandler{Store: store}
}

func (h *SkillHandler) List(c *fiber.Ctx) error {
	skills, err := h.Store.Skills.All(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, skills)
}
