package ws

import (
	"encoding/json"

	"github.com/lk16/flippy/reversi/internal/models"
)

const (
	EventCreateGame   = "create_game"
	EventGetGame      = "get_game"
	EventActivateCell = "activate_cell"
	EventReset        = "reset"
	EventUndo         = "undo"
)

type Incoming struct {
	Event string          `json:"event"`
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
}

// Outgoing is the reply to an Incoming message with the same ID. Exactly one
// of Data and Error is set.
type Outgoing struct {
	ID    int    `json:"id"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// GameRequest is the data of every event that refers to an existing game.
type GameRequest struct {
	GameID string `json:"game_id"`
}

type ActivateCellRequest struct {
	GameID string `json:"game_id"`
	models.MoveRequest
}
