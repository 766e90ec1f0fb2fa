package http

import (
	"errors"

	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pkg/validator"
	"github.com/gabapcia/depositwatch/internal/pointsledger"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps ledger errors onto HTTP status codes. Missing parties and
// uncovered balances both read as "nothing to act on" for the caller, hence
// 404; constraint violations read as bad requests.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, pointsledger.ErrUserNotFound),
		errors.Is(err, pointsledger.ErrInsufficientPoints):
		return fiber.StatusNotFound
	case errors.Is(err, pointsledger.ErrUserAlreadyExists),
		errors.Is(err, pointsledger.ErrWalletAlreadyBound),
		errors.Is(err, pointsledger.ErrSelfTransfer),
		errors.Is(err, pointsledger.ErrNegativeAmount),
		errors.Is(err, validator.ErrValidationFailed):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the JSON error payload for err. Unexpected errors are
// logged and masked behind a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error(c.UserContext(), "unexpected error handling request",
			"http.method", c.Method(),
			"http.path", c.Path(),
			"error", err,
		)
		return c.Status(status).JSON(fiber.Map{"detail": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"detail": err.Error()})
}
