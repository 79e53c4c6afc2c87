package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/notify"
)

type NotificationHandler struct {
	Inbox *notify.Inbox
}

func NewNotificationHandler(inbox *notify.Inbox) *NotificationHandler {
	return &NotificationHandler{Inbox: inbox}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	list, meta, err := h.Inbox.List(c.UserContext(), actor, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return okList(c, list, meta)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	n, err := h.Inbox.UnreadCount(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"count": n})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Notification not found")
	if err != nil {
		return err
	}
	n, err := h.Inbox.MarkRead(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, n)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	if _, err := h.Inbox.MarkAllRead(c.UserContext(), actor); err != nil {
		return err
	}
	return okMessage(c, "All notifications marked as read")
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Notification not found")
	if err != nil {
		return err
	}
	if err := h.Inbox.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return okMessage(c, "Notification deleted")
}
