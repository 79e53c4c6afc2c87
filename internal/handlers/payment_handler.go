package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/payments"
)

type PaymentHandler struct {
	Payments *payments.Service
}

func NewPaymentHandler(svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{Payments: svc}
}

func (h *PaymentHandler) List(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id", "Job not found")
	if err != nil {
		return err
	}
	list, err := h.Payments.List(c.UserContext(), actor, jobID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, list)
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id", "Job not found")
	if err != nil {
		return err
	}
	var req payments.CreateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.Payments.Create(c.UserContext(), actor, jobID, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, p)
}

func (h *PaymentHandler) Show(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Payment not found")
	if err != nil {
		return err
	}
	p, err := h.Payments.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, p)
}

func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Payment not found")
	if err != nil {
		return err
	}
	var req payments.UpdateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.Payments.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, p)
}
