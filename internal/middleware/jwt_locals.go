package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

// AttachJWTLocals exposes the verified claims as "userId" (uuid.UUID) and "role".
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(*utils.Claims)
		if !ok || claims == nil {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		role := models.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
		if !role.Valid() {
			return fiber.ErrUnauthorized
		}

		c.Locals("userId", uid)
		c.Locals("role", role)

		return c.Next()
	}
}

// Actor returns the authenticated caller set by AttachJWTLocals.
func Actor(c *fiber.Ctx) (models.Actor, bool) {
	uid, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return models.Actor{}, false
	}
	role, _ := c.Locals("role").(models.Role)
	return models.Actor{ID: uid, Role: role}, true
}

func Claims(c *fiber.Ctx) (*utils.Claims, bool) {
	claims, ok := c.Locals("user").(*utils.Claims)
	return claims, ok && claims != nil
}
