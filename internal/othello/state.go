package othello

import (
	"errors"
	"fmt"
	"strings"
)

var ErrGameOver = errors.New("game is over")

// Status is derived from the board and the player to move.
type Status uint8

const (
	InProgress Status = iota
	BlackMustPass
	WhiteMustPass
	Over
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case BlackMustPass:
		return "black_must_pass"
	case WhiteMustPass:
		return "white_must_pass"
	case Over:
		return "over"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, status := range []Status{InProgress, BlackMustPass, WhiteMustPass, Over} {
		if status.String() == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("invalid status: %q", text)
}

// Outcome is the result of a finished game. Winner is NoPlayer on a draw.
type Outcome struct {
	Winner Player `json:"winner"`
	Black  int    `json:"black"`
	White  int    `json:"white"`
}

// IsDraw reports whether both players have the same disc count.
func (o Outcome) IsDraw() bool {
	return o.Winner == NoPlayer
}

func (o Outcome) String() string {
	if o.IsDraw() {
		return fmt.Sprintf("draw %d-%d", o.Black, o.White)
	}
	return fmt.Sprintf("%s wins %d-%d", o.Winner, o.Black, o.White)
}

// Transition describes what happened when a move was applied.
type Transition struct {
	Player  Player `json:"player"`
	Move    Move   `json:"move"`
	Flipped []Move `json:"flipped"`

	// Passed is the player that has to pass after this move, or NoPlayer.
	Passed Player `json:"passed"`

	// GameOver is set when neither player can move after this move.
	GameOver bool `json:"game_over"`
}

// State is a board together with the player to move.
type State struct {
	board Board
	turn  Player
}

// NewState creates the initial state for a board of the given size.
func NewState(size int) (State, error) {
	board, err := NewBoardStart(size)
	if err != nil {
		return State{}, err
	}
	return State{board: board, turn: FirstPlayer}, nil
}

// NewStateFromBoard creates a state with an arbitrary board. If turn has no
// legal move but its opponent does, the turn is handed to the opponent.
func NewStateFromBoard(board Board, turn Player) (State, error) {
	if !turn.Valid() {
		return State{}, fmt.Errorf("invalid turn: %s", turn)
	}

	if board.Size() == 0 {
		return State{}, fmt.Errorf("%w: uninitialized board", ErrInvalidSize)
	}

	if !board.HasLegalMove(turn) && board.HasLegalMove(turn.Opponent()) {
		turn = turn.Opponent()
	}

	return State{board: board, turn: turn}, nil
}

// ParseState parses the format produced by State.String: all cells in
// row-major order followed by "-b" or "-w".
func ParseState(s string) (State, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return State{}, fmt.Errorf("state string too short: %q", s)
	}

	var turn Player
	switch s[len(s)-2:] {
	case "-b":
		turn = Black
	case "-w":
		turn = White
	default:
		return State{}, fmt.Errorf("invalid turn: %s", s[len(s)-2:])
	}

	cells := s[:len(s)-2]
	size := 0
	for size*size < len(cells) {
		size++
	}
	if size*size != len(cells) {
		return State{}, fmt.Errorf("state string has %d cells, which is not a square", len(cells))
	}

	rows := make([]string, size)
	for r := range size {
		rows[r] = cells[r*size : (r+1)*size]
	}

	board, err := NewBoardFromRows(rows)
	if err != nil {
		return State{}, fmt.Errorf("invalid board: %w", err)
	}

	return NewStateFromBoard(board, turn)
}

// Board returns the current board.
func (s State) Board() Board {
	return s.board
}

// Turn returns the player to move.
func (s State) Turn() Player {
	return s.turn
}

// Counts returns the disc counts of the board.
func (s State) Counts() Counts {
	return s.board.Counts()
}

// Status derives the game status from the board.
func (s State) Status() Status {
	if s.board.HasLegalMove(s.turn) {
		return InProgress
	}

	if s.board.HasLegalMove(s.turn.Opponent()) {
		if s.turn == Black {
			return BlackMustPass
		}
		return WhiteMustPass
	}

	return Over
}

// IsOver reports whether neither player has a legal move.
func (s State) IsOver() bool {
	return s.Status() == Over
}

// LegalMoves returns the legal moves of the player to move.
func (s State) LegalMoves() []Move {
	return s.board.LegalMoves(s.turn)
}

// Outcome compares the disc counts. It is meaningful once the game is over.
func (s State) Outcome() Outcome {
	counts := s.board.Counts()
	outcome := Outcome{Black: counts.Black, White: counts.White}

	switch {
	case counts.Black > counts.White:
		outcome.Winner = Black
	case counts.White > counts.Black:
		outcome.Winner = White
	}

	return outcome
}

// Apply plays m for the player to move and returns the next state. After the
// move the opponent is to move, unless the opponent has no legal move and the
// mover does, in which case the opponent passes. On error the unchanged state
// is returned.
func (s State) Apply(m Move) (State, Transition, error) {
	if s.IsOver() {
		return s, Transition{}, ErrGameOver
	}

	mover := s.turn
	flipped := s.board.Flips(m, mover)

	board, err := s.board.Apply(m, mover)
	if err != nil {
		return s, Transition{}, err
	}

	transition := Transition{
		Player:  mover,
		Move:    m,
		Flipped: flipped,
	}

	next := State{board: board, turn: mover.Opponent()}

	switch {
	case board.HasLegalMove(next.turn):
	case board.HasLegalMove(mover):
		transition.Passed = next.turn
		next.turn = mover
	default:
		transition.GameOver = true
	}

	return next, transition, nil
}

// String returns the cells in row-major order followed by the turn, e.g.
// ".....xo..ox.....-b".
func (s State) String() string {
	var sb strings.Builder
	for _, row := range s.board.Rows() {
		sb.WriteString(row)
	}

	if s.turn == White {
		sb.WriteString("-w")
	} else {
		sb.WriteString("-b")
	}

	return sb.String()
}
