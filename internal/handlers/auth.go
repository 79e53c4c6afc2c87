package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/auth"
)

type AuthHandler struct {
	Auth *auth.Service
	// Secure marks the session cookie Secure; on in production.
	Secure bool
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sess, err := h.Auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	h.setCookie(c, sess.Token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registered successfully",
		"data": fiber.Map{
			"user":  userView(sess.User),
			"token": sess.Token,
		},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sess, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setCookie(c, sess.Token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged in successfully",
		"data": fiber.Map{
			"user":  userView(sess.User),
			"token": sess.Token,
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if claims, ok := middleware.Claims(c); ok {
		if err := h.Auth.Logout(c.UserContext(), claims); err != nil {
			return err
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.Secure,
		SameSite: "Lax",
	})
	return okMessage(c, "Logged out successfully")
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	u, err := h.Auth.Me(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, userView(u))
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.Secure,
		SameSite: "Lax",
		MaxAge:   h.Auth.ExpiresMin * 60,
	})
}

func userView(u *models.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
}
