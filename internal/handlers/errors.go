package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/astrelya/cv-to-dc/internal/logger"
	"github.com/astrelya/cv-to-dc/internal/schema"
	"github.com/astrelya/cv-to-dc/internal/services"
)

const ownerHeader = "X-User-ID"

// ownerID reads the caller identity set by the upstream auth proxy. It is
// empty when the header is missing.
func ownerID(c *fiber.Ctx) string {
	return c.Get(ownerHeader)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}

// writeError maps service errors to HTTP responses.
func writeError(c *fiber.Ctx, err error) error {
	var (
		validationErr *services.ValidationError
		extractionErr *services.ExtractionError
		generationErr *services.GenerationError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Message})

	case errors.Is(err, services.ErrCVNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, services.ErrNoExtractionData):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, schema.ErrUnknownSchema):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "The extracted data does not match a known CV format",
		})

	case errors.As(err, &extractionErr):
		status := fiber.StatusBadGateway
		switch extractionErr.Kind {
		case services.ExtractionQuota, services.ExtractionUnavailable, services.ExtractionUnreachable:
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"error": extractionErr.Error(),
			"kind":  extractionErr.Kind,
		})

	case errors.As(err, &generationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": generationErr.Error(),
			"kind":  generationErr.Kind,
		})
	}

	logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
