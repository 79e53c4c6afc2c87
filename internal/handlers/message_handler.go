package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/messages"
)

type MessageHandler struct {
	Messages *messages.Service
	Hub      *realtime.Hub
}

func NewMessageHandler(svc *messages.Service, hub *realtime.Hub) *MessageHandler {
	return &MessageHandler{Messages: svc, Hub: hub}
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	list, meta, err := h.Messages.List(c.UserContext(), actor, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return okList(c, list, meta)
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	var req messages.SendInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	msg, err := h.Messages.Send(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, msg)
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Message not found")
	if err != nil {
		return err
	}
	msg, err := h.Messages.MarkRead(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, msg)
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	n, err := h.Messages.UnreadCount(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"count": n})
}

// Upgrade rejects plain HTTP requests on the websocket route.
func (h *MessageHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Stream runs after the JWT middleware, so the user id is already in locals.
func (h *MessageHandler) Stream(conn *websocket.Conn) {
	userID, ok := conn.Locals("userId").(uuid.UUID)
	if !ok {
		log.Println("[ws] connection without user, closing")
		_ = conn.Close()
		return
	}
	log.Printf("[ws] user %s connected", userID)
	h.Hub.Serve(realtime.NewClient(userID, realtime.NewWebSocketConn(conn)))
}
