package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pullquest/backend/internal/apperr"
)

// respondError renders a service-layer error as JSON with the HTTP status
// its kind maps to. Unknown errors become a bare 500.
func respondError(c *fiber.Ctx, err error) error {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	status := fiber.StatusInternalServerError
	switch e.Kind {
	case apperr.Validation, apperr.InsufficientResources:
		status = fiber.StatusBadRequest
	case apperr.NotFound:
		status = fiber.StatusNotFound
	case apperr.Conflict:
		status = fiber.StatusConflict
	case apperr.UpstreamUnavailable:
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   string(e.Kind),
		"message": e.Message,
	})
}
