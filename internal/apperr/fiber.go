package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Status maps an error kind to the HTTP status it is served with.
func Status(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrMalformedRecord), errors.Is(err, ErrNetwork), errors.Is(err, ErrImageUpload):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

const MsgInternal = "Something went wrong. Please try again."

// ErrorHandler renders every error as a {"title","message"} dialog.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := Status(err)

		dialog := DialogFor(err)
		var fe *fiber.Error
		var appErr *Error
		switch {
		case errors.As(err, &fe):
			dialog = Dialog{Title: "Error", Message: fe.Message}
		case status == fiber.StatusInternalServerError && !errors.As(err, &appErr):
			// unclassified failures, recovered panics included, stay in the log
			dialog = Dialog{Title: "Error", Message: MsgInternal}
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err))
		}
		return c.Status(status).JSON(dialog)
	}
}
