package ws

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/session"
	"github.com/lk16/flippy/reversi/internal/ws"
)

func handleWs(c *websocket.Conn) {
	manager := c.Locals("manager").(*session.Manager) //nolint: errcheck
	cfg := c.Locals("config").(*config.ServerConfig)  //nolint: errcheck

	h := ws.NewHandler(c, manager, cfg.GameDefaults())
	if err := h.Handle(); err != nil {
		slog.Error("ws handle error", "error", err)
	}
}

// upgradeRequired rejects requests that are not websocket upgrades.
func upgradeRequired(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// SetupRoutes sets up the routes for the websocket.
func SetupRoutes(app *fiber.App) {
	app.Get("/ws", upgradeRequired, websocket.New(handleWs))
}
