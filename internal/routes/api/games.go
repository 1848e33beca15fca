package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/lk16/flippy/reversi/internal/session"
)

func getManager(c *fiber.Ctx) *session.Manager {
	return c.Locals("manager").(*session.Manager) //nolint: errcheck
}

// gameID returns the game ID path parameter. Fiber reuses the underlying
// buffer after the handler returns, the manager keeps the ID around.
func gameID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

// ErrorStatus maps an error of the game manager to an HTTP status code.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, othello.ErrIllegalMove),
		errors.Is(err, othello.ErrNotYourTurn),
		errors.Is(err, othello.ErrGameOver),
		errors.Is(err, session.ErrVersionConflict):
		return fiber.StatusConflict
	case errors.Is(err, othello.ErrInvalidSize):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Error: err.Error(),
	})
}

// CreateGame starts a new game. An empty body uses the server defaults.
func CreateGame(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.ServerConfig) //nolint: errcheck

	var req models.NewGameRequest
	if len(c.Body()) != 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "Invalid request body",
			})
		}
	}

	settings, err := req.Settings(cfg.GameDefaults())
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err)
	}

	resp, err := getManager(c).Create(c.Context(), settings)
	if err != nil {
		return errorResponse(c, ErrorStatus(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetGame returns the current state of a game.
func GetGame(c *fiber.Ctx) error {
	resp, err := getManager(c).Get(c.Context(), gameID(c))
	if err != nil {
		return errorResponse(c, ErrorStatus(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteGame removes a game.
func DeleteGame(c *fiber.Ctx) error {
	if err := getManager(c).Delete(c.Context(), gameID(c)); err != nil {
		return errorResponse(c, ErrorStatus(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ActivateCell plays a move for the human side to move.
func ActivateCell(c *fiber.Ctx) error {
	var req models.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	move, err := req.Move()
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err)
	}

	resp, err := getManager(c).Activate(c.Context(), gameID(c), move)
	if err != nil {
		return errorResponse(c, ErrorStatus(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ResetGame re-seeds the board of a game.
func ResetGame(c *fiber.Ctx) error {
	resp, err := getManager(c).Reset(c.Context(), gameID(c))
	if err != nil {
		return errorResponse(c, ErrorStatus(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UndoMove takes back the last human move.
func UndoMove(c *fiber.Ctx) error {
	resp, err := getManager(c).Undo(c.Context(), gameID(c))
	if err != nil {
		return errorResponse(c, ErrorStatus(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
