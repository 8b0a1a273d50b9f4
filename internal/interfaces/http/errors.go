package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/domain"
)

// errorStatus traduce los errores de dominio a status y código de ErrorResponse.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrProfileNotFound):
		return fiber.StatusForbidden, "PROFILE_NOT_FOUND"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrUnsupportedFile):
		return fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"
	case errors.Is(err, domain.ErrNoRecognizedHeader), errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrUnreadableFile):
		return fiber.StatusUnprocessableEntity, "PARSE_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
