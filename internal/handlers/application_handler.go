package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/applications"
)

type ApplicationHandler struct {
	Applications *applications.Service
}

func NewApplicationHandler(svc *applications.Service) *ApplicationHandler {
	return &ApplicationHandler{Applications: svc}
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id", "Job not found")
	if err != nil {
		return err
	}
	var req applications.ApplyInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	app, err := h.Applications.Apply(c.UserContext(), actor, jobID, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, app)
}

func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	list, meta, err := h.Applications.ListMine(c.UserContext(), actor, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return okList(c, list, meta)
}

func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Application not found")
	if err != nil {
		return err
	}
	var req applications.UpdateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	app, err := h.Applications.UpdateStatus(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	// the job owner does not need the job echoed back
	app.Job = nil
	return ok(c, fiber.StatusOK, app)
}
