package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kedai/internal/repositories"
	"kedai/internal/services"
)

// statusForError maps the workflow's sentinel errors onto HTTP status
// codes. Anything unclassified is a server-side failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound),
		errors.Is(err, repositories.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidOrderState):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrMissingParameter),
		errors.Is(err, services.ErrInvalidLineItem),
		errors.Is(err, services.ErrNegativePrice):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrProvider):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
