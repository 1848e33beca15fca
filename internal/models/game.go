package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/lk16/flippy/reversi/internal/othello"
)

// GameSettings are the user-chosen parameters of a game.
type GameSettings struct {
	Size      int            `json:"size"`
	Automated othello.Player `json:"automated"`
	Policy    string         `json:"policy"`
}

// Validate checks the settings without creating a game.
func (s GameSettings) Validate() error {
	if err := othello.ValidateSize(s.Size); err != nil {
		return err
	}

	if s.Automated != othello.NoPlayer && !s.Automated.Valid() {
		return fmt.Errorf("invalid automated player: %d", s.Automated)
	}

	return validatePolicy(s.Policy)
}

// GameConfig creates the engine configuration. The seed is only used by the random policy.
func (s GameSettings) GameConfig(seed int64) (othello.GameConfig, error) {
	policy, err := othello.PolicyByName(s.Policy, seed)
	if err != nil {
		return othello.GameConfig{}, err
	}

	return othello.GameConfig{
		Size:      s.Size,
		Automated: s.Automated,
		Policy:    policy,
	}, nil
}

// Snapshot is the persisted form of a live game. The board is not stored,
// it is recomputed by replaying the moves.
type Snapshot struct {
	ID       string       `json:"id"`
	Settings GameSettings `json:"settings"`
	Moves    MoveList     `json:"moves"`

	// Version is incremented on every save, starting at 1.
	Version int `json:"version"`

	// ArchiveID is the archive ID of the current ending, empty while the game is not over.
	ArchiveID string `json:"archive_id,omitempty"`
	Archived  bool   `json:"archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Game restores the game from the snapshot.
func (s *Snapshot) Game(seed int64) (*othello.Game, error) {
	config, err := s.Settings.GameConfig(seed)
	if err != nil {
		return nil, err
	}

	game, err := othello.NewGameFromMoves(config, s.Moves)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", s.ID, err)
	}

	return game, nil
}

// FinishedGame is a completed game as stored in the archive.
type FinishedGame struct {
	ID         string         `json:"id"`
	Size       int            `json:"size"`
	Automated  othello.Player `json:"automated"`
	Policy     string         `json:"policy"`
	Black      int            `json:"black"`
	White      int            `json:"white"`
	Winner     othello.Player `json:"winner"`
	Moves      MoveList       `json:"moves"`
	FinishedAt time.Time      `json:"finished_at"`
}

// NewFinishedGame creates the archive record of a game that is over.
func NewFinishedGame(id string, settings GameSettings, game *othello.Game, finishedAt time.Time) (FinishedGame, error) {
	outcome, ok := game.Outcome()
	if !ok {
		return FinishedGame{}, fmt.Errorf("game %s is not over", id)
	}

	return FinishedGame{
		ID:         id,
		Size:       settings.Size,
		Automated:  settings.Automated,
		Policy:     settings.Policy,
		Black:      outcome.Black,
		White:      outcome.White,
		Winner:     outcome.Winner,
		Moves:      MoveList(game.Moves()),
		FinishedAt: finishedAt,
	}, nil
}

// MoveList is a list of moves stored in field notation. It implements
// sql.Scanner and driver.Valuer as a postgres text array.
type MoveList []othello.Move

// Fields returns the field notation of every move.
func (l MoveList) Fields() []string {
	fields := make([]string, len(l))
	for i, move := range l {
		fields[i] = move.String()
	}
	return fields
}

// MarshalJSON encodes the list as field notation strings.
func (l MoveList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Fields())
}

// UnmarshalJSON decodes a list of field notation strings.
func (l *MoveList) UnmarshalJSON(data []byte) error {
	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	return l.setFields(fields)
}

// Value implements the driver.Valuer interface.
func (l MoveList) Value() (driver.Value, error) {
	return pq.StringArray(l.Fields()).Value()
}

// Scan implements the sql.Scanner interface.
func (l *MoveList) Scan(value any) error {
	var fields pq.StringArray
	if err := fields.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into MoveList: %w", value, err)
	}
	return l.setFields(fields)
}

func (l *MoveList) setFields(fields []string) error {
	moves := make(MoveList, len(fields))
	for i, field := range fields {
		move, err := othello.ParseMove(field)
		if err != nil {
			return err
		}
		moves[i] = move
	}
	*l = moves
	return nil
}
