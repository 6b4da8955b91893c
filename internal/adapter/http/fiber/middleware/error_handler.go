package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
)

// StatusFor maps an error kind onto its HTTP status code.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.KindNotAuthorized:
		return fiber.StatusForbidden
	case domain.KindValidationFailed, domain.KindInvalidType:
		return fiber.StatusBadRequest
	case domain.KindStationNotFound, domain.KindEVOwnerNotFound:
		return fiber.StatusNotFound
	case domain.KindAlreadyInState, domain.KindHasActiveBookings, domain.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := domain.ErrInternal.Message

		var fe *fiber.Error
		var de *domain.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.As(err, &de):
			code = StatusFor(de.Kind)
			message = de.Message
		}

		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
