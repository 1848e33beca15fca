package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy/reversi/internal/middleware"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(app *fiber.App) {
	apiGroup := app.Group("/api")

	// Game routes
	apiGroup.Post("/games", CreateGame)
	apiGroup.Get("/games/:id", GetGame)
	apiGroup.Delete("/games/:id", DeleteGame)
	apiGroup.Post("/games/:id/moves", ActivateCell)
	apiGroup.Post("/games/:id/reset", ResetGame)
	apiGroup.Post("/games/:id/undo", UndoMove)

	// Stats routes
	apiGroup.Get("/stats", middleware.Token(), GetStats)
}
