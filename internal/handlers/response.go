package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

// ErrorHandler renders every error returned by a handler or middleware in the
// {success:false, message} envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if ve, ok := apperr.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Validation error",
			"errors":  ve.Fields,
		})
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		code := fiber.StatusInternalServerError
		switch ae.Kind {
		case apperr.KindUnauthorized:
			code = fiber.StatusUnauthorized
		case apperr.KindForbidden:
			code = fiber.StatusForbidden
		case apperr.KindNotFound:
			code = fiber.StatusNotFound
		}
		return c.Status(code).JSON(fiber.Map{"success": false, "message": ae.Message})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
	}

	log.Printf("[http] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Server error",
	})
}

func getActor(c *fiber.Ctx) (models.Actor, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return models.Actor{}, fiber.ErrUnauthorized
	}
	return actor, nil
}

// paramUUID parses a route id; a malformed id cannot match any row.
func paramUUID(c *fiber.Ctx, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.NotFound(notFound)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.InvalidField("body", "The request body is invalid.")
	}
	return nil
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func okList(c *fiber.Ctx, data, meta any) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "meta": meta})
}

func okMessage(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": true, "message": msg})
}
