package othello

import (
	"fmt"
	"strconv"
	"strings"
)

// Move is a board coordinate. Row and Col are zero-based.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PassMove is recorded in the move history when a player has no legal move.
var PassMove = Move{Row: -1, Col: -1}

// IsPass reports whether m is the pass move.
func (m Move) IsPass() bool {
	return m == PassMove
}

// String returns the field notation of the move, e.g. "c4". The pass move is "--".
func (m Move) String() string {
	if m.IsPass() {
		return "--"
	}
	if m.Col < 0 || m.Col >= MaxSize || m.Row < 0 {
		return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

// ParseMove converts a field notation (e.g. "a1", "d3", "p16") into a Move.
// PassMove is returned if the field is "--", "ps" or "pa".
func ParseMove(field string) (Move, error) {
	field = strings.ToLower(strings.TrimSpace(field))

	if field == "--" || field == "ps" || field == "pa" {
		return PassMove, nil
	}

	if len(field) < 2 || len(field) > 3 {
		return Move{}, fmt.Errorf("invalid field length: %q", field)
	}

	col := int(field[0]) - 'a'
	if col < 0 || col >= MaxSize {
		return Move{}, fmt.Errorf("invalid field column: %q", field)
	}

	row, err := strconv.Atoi(field[1:])
	if err != nil || row < 1 || row > MaxSize {
		return Move{}, fmt.Errorf("invalid field row: %q", field)
	}

	return Move{Row: row - 1, Col: col}, nil
}

// direction is a unit step on the board.
type direction struct {
	dRow, dCol int
}

// directions lists the 8 compass directions.
var directions = [8]direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

func (m Move) step(d direction) Move {
	return Move{Row: m.Row + d.dRow, Col: m.Col + d.dCol}
}
