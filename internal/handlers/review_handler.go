package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/reviews"
)

type ReviewHandler struct {
	Reviews *reviews.Service
}

func NewReviewHandler(svc *reviews.Service) *ReviewHandler {
	return &ReviewHandler{Reviews: svc}
}

// User is the public rating card of a user.
func (h *ReviewHandler) User(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "User not found")
	if err != nil {
		return err
	}
	sum, err := h.Reviews.UserSummary(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, sum)
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "User not found")
	if err != nil {
		return err
	}
	list, meta, err := h.Reviews.List(c.UserContext(), id, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return okList(c, list, meta)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "User not found")
	if err != nil {
		return err
	}
	var req reviews.CreateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	rv, err := h.Reviews.Create(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, rv)
}
