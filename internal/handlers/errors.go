package handlers

import (
	"errors"
	"fmt"

	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateKey):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInsufficientPayment):
		return fiber.StatusPaymentRequired
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrNoSession):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrProtected):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidPaymentMethod):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as {"message", "error"} with the mapped status.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		zap.S().Errorf("%s: %v", message, err)
	}

	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		body["errors"] = validationErr.Fields
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validateRequest reports request DTO violations the way the services do.
func validateRequest(c *fiber.Ctx, v *validator.Validate, req interface{}) (bool, error) {
	err := v.Struct(req)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, badBody(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// Guards are the middlewares routes are protected with.
type Guards struct {
	Auth  fiber.Handler
	Admin fiber.Handler
}
