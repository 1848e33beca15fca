package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/models"
)

// Token middleware that only lets requests through with a valid x-token header.
func Token() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := c.Locals("config").(*config.ServerConfig) //nolint: errcheck

		token := c.Get("x-token")
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: "Unauthorized",
			})
		}

		return c.Next()
	}
}
