package models

import (
	"errors"
	"fmt"

	"github.com/lk16/flippy/reversi/internal/othello"
)

// NewGameRequest represents the payload for creating a game. Missing fields
// are filled in from the server defaults.
type NewGameRequest struct {
	Size      int             `json:"size"`
	Automated *othello.Player `json:"automated"`
	Policy    string          `json:"policy"`
}

// Settings applies the request on top of defaults and validates the result.
func (r *NewGameRequest) Settings(defaults GameSettings) (GameSettings, error) {
	settings := defaults

	if r.Size != 0 {
		settings.Size = r.Size
	}

	if r.Automated != nil {
		settings.Automated = *r.Automated
	}

	if r.Policy != "" {
		settings.Policy = r.Policy
	}

	if err := settings.Validate(); err != nil {
		return GameSettings{}, err
	}

	return settings, nil
}

// MoveRequest represents a cell activation. Either Row and Col or Field must be set.
type MoveRequest struct {
	Row   *int   `json:"row"`
	Col   *int   `json:"col"`
	Field string `json:"field"`
}

// Move converts the request into a move.
func (r *MoveRequest) Move() (othello.Move, error) {
	if r.Field != "" {
		if r.Row != nil || r.Col != nil {
			return othello.Move{}, errors.New("either field or row and col must be set, not both")
		}

		move, err := othello.ParseMove(r.Field)
		if err != nil {
			return othello.Move{}, err
		}

		if move.IsPass() {
			return othello.Move{}, errors.New("passing is automatic and cannot be requested")
		}

		return move, nil
	}

	if r.Row == nil || r.Col == nil {
		return othello.Move{}, errors.New("row and col are required")
	}

	if *r.Row < 0 || *r.Col < 0 {
		return othello.Move{}, errors.New("row and col must not be negative")
	}

	return othello.Move{Row: *r.Row, Col: *r.Col}, nil
}

// GameResponse is the full view of a game, returned after every request.
type GameResponse struct {
	ID          string               `json:"id"`
	Size        int                  `json:"size"`
	Board       []string             `json:"board"`
	Turn        othello.Player       `json:"turn"`
	Status      othello.Status       `json:"status"`
	Counts      othello.Counts       `json:"counts"`
	LegalMoves  []othello.Move       `json:"legal_moves"`
	Moves       []string             `json:"moves"`
	Automated   othello.Player       `json:"automated"`
	Policy      string               `json:"policy"`
	Outcome     *othello.Outcome     `json:"outcome,omitempty"`
	Transitions []othello.Transition `json:"transitions,omitempty"`
}

// NewGameResponse builds the view of a game. Transitions are the moves
// played while handling the current request.
func NewGameResponse(id string, game *othello.Game, transitions []othello.Transition) GameResponse {
	state := game.State()
	config := game.Config()

	legalMoves := state.LegalMoves()
	if legalMoves == nil {
		legalMoves = []othello.Move{}
	}

	response := GameResponse{
		ID:          id,
		Size:        state.Board().Size(),
		Board:       state.Board().Rows(),
		Turn:        state.Turn(),
		Status:      state.Status(),
		Counts:      state.Counts(),
		LegalMoves:  legalMoves,
		Moves:       MoveList(game.Moves()).Fields(),
		Automated:   config.Automated,
		Policy:      config.Policy.Name(),
		Transitions: transitions,
	}

	if outcome, ok := game.Outcome(); ok {
		response.Outcome = &outcome
	}

	return response
}

// ArchiveStats summarizes all finished games.
type ArchiveStats struct {
	Games     int `json:"games"      db:"games"`
	BlackWins int `json:"black_wins" db:"black_wins"`
	WhiteWins int `json:"white_wins" db:"white_wins"`
	Draws     int `json:"draws"      db:"draws"`
}

// StatsResponse represents the response for the stats endpoint.
type StatsResponse struct {
	Archive     ArchiveStats   `json:"archive"`
	LiveGames   int            `json:"live_games"`
	RecentGames []FinishedGame `json:"recent_games"`
}

type VersionResponse struct {
	Commit string `json:"commit"`
}

// ErrorResponse is returned by all endpoints on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

func validatePolicy(name string) error {
	switch name {
	case othello.PolicyGreedy, othello.PolicyRandom:
		return nil
	default:
		return fmt.Errorf("unknown policy: %q", name)
	}
}
