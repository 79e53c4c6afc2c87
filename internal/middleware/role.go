package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

// RequireRoles must run after AttachJWTLocals.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := map[models.Role]bool{}
	for _, r := range allowed {
		allowedSet[models.Role(strings.ToLower(string(r)))] = true
	}

	return func(c *fiber.Ctx) error {
		actor, ok := Actor(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		if !allowedSet[actor.Role] {
			return fiber.NewError(fiber.StatusForbidden, "Unauthorized")
		}
		return c.Next()
	}
}
