package api

import (
	"github.com/gofiber/fiber/v2"
)

// GetStats returns statistics of finished and live games.
func GetStats(c *fiber.Ctx) error {
	stats, err := getManager(c).Stats(c.Context())
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
