package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

const TokenCookie = "jm_token"

// Revocations reports whether a token id was logged out.
type Revocations interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWTFromCookie authenticates the request from the jm_token cookie or a Bearer
// header. Websocket upgrades may also pass the token as ?token=.
func JWTFromCookie(secret string, revoked Revocations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		if revoked != nil && claims.ID != "" {
			gone, err := revoked.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				log.Printf("[auth] revocation lookup failed: %v", err)
				return fiber.ErrServiceUnavailable
			}
			if gone {
				return fiber.ErrUnauthorized
			}
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

func tokenFrom(c *fiber.Ctx) string {
	if v := c.Cookies(TokenCookie); v != "" {
		return v
	}
	if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if websocket.IsWebSocketUpgrade(c) {
		return c.Query("token")
	}
	return ""
}
