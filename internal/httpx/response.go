package httpx

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// OK wraps data in the standard success envelope.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// Created is OK with a 201 status.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

// ErrorHandler is the single error boundary: fiber errors keep their
// status, anything else is logged and surfaced as a generic 500. The
// HTTP status is mirrored inside the body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"message": e.Message, "status": e.Code},
		})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"message": "Internal Server Error", "status": fiber.StatusInternalServerError},
	})
}
