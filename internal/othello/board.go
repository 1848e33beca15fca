package othello

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinSize     = 4
	MaxSize     = 16
	DefaultSize = 4
)

var ErrInvalidSize = errors.New("invalid board size")

// Board is a square grid of cells. Board is a value: every operation that
// changes the board returns a new one and leaves the receiver untouched.
type Board struct {
	size  int
	cells [MaxSize * MaxSize]Cell
}

// Counts holds the number of cells of each kind on a board.
type Counts struct {
	Black int `json:"black"`
	White int `json:"white"`
	Empty int `json:"empty"`
}

// Of returns the disc count of a player.
func (c Counts) Of(p Player) int {
	switch p {
	case Black:
		return c.Black
	case White:
		return c.White
	default:
		return 0
	}
}

// ValidateSize checks that size is even and within [MinSize, MaxSize].
func ValidateSize(size int) error {
	if size < MinSize || size > MaxSize || size%2 != 0 {
		return fmt.Errorf("%w: %d (must be even and between %d and %d)", ErrInvalidSize, size, MinSize, MaxSize)
	}
	return nil
}

// NewBoardEmpty creates a board without any discs.
func NewBoardEmpty(size int) (Board, error) {
	if err := ValidateSize(size); err != nil {
		return Board{}, err
	}
	return Board{size: size}, nil
}

// NewBoardStart creates a board with the centre cross: black on the main
// diagonal of the centre square, white on the other diagonal.
func NewBoardStart(size int) (Board, error) {
	b, err := NewBoardEmpty(size)
	if err != nil {
		return Board{}, err
	}

	mid := size / 2
	b.set(Move{mid - 1, mid - 1}, BlackDisc)
	b.set(Move{mid, mid}, BlackDisc)
	b.set(Move{mid - 1, mid}, WhiteDisc)
	b.set(Move{mid, mid - 1}, WhiteDisc)

	return b, nil
}

// NewBoardFromRows creates a board from one string per row, using 'x' for
// black, 'o' for white and '.' for empty cells.
func NewBoardFromRows(rows []string) (Board, error) {
	b, err := NewBoardEmpty(len(rows))
	if err != nil {
		return Board{}, err
	}

	for r, row := range rows {
		runes := []rune(row)
		if len(runes) != b.size {
			return Board{}, fmt.Errorf("row %d has %d cells, expected %d", r, len(runes), b.size)
		}
		for c, ch := range runes {
			cell, err := cellFromRune(ch)
			if err != nil {
				return Board{}, fmt.Errorf("row %d: %w", r, err)
			}
			b.set(Move{r, c}, cell)
		}
	}

	return b, nil
}

// Size returns the side length of the board.
func (b Board) Size() int {
	return b.size
}

// InBounds reports whether m lies on the board.
func (b Board) InBounds(m Move) bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < b.size && m.Col < b.size
}

// At returns the cell at m. Out of bounds coordinates read as Empty.
func (b Board) At(m Move) Cell {
	if !b.InBounds(m) {
		return Empty
	}
	return b.cells[m.Row*b.size+m.Col]
}

// set modifies the receiver, callers must only use it on a private copy.
func (b *Board) set(m Move, c Cell) {
	b.cells[m.Row*b.size+m.Col] = c
}

// Counts returns the number of black, white and empty cells.
func (b Board) Counts() Counts {
	var counts Counts
	for i := range b.size * b.size {
		switch b.cells[i] {
		case BlackDisc:
			counts.Black++
		case WhiteDisc:
			counts.White++
		default:
			counts.Empty++
		}
	}
	return counts
}

// Rows returns one string per row, see NewBoardFromRows.
func (b Board) Rows() []string {
	rows := make([]string, b.size)
	for r := range b.size {
		var sb strings.Builder
		for c := range b.size {
			sb.WriteRune(b.At(Move{r, c}).Rune())
		}
		rows[r] = sb.String()
	}
	return rows
}

// Equal checks if two boards are equal.
func (b Board) Equal(other Board) bool {
	return b == other
}

// ASCIIArtLines returns the ascii art lines for the board, marking the legal
// moves of player (if any) with a dot.
func (b Board) ASCIIArtLines(player Player) []string {
	legal := make(map[Move]bool)
	for _, m := range b.LegalMoves(player) {
		legal[m] = true
	}

	width := len(strconv.Itoa(b.size))

	header := "+" + strings.Repeat("-", width)
	for c := range b.size {
		header += string(rune('a'+c)) + "-"
	}
	header += "+"

	lines := make([]string, 0, b.size+2)
	lines = append(lines, header)

	for r := range b.size {
		line := fmt.Sprintf("%*d ", width, r+1)
		for c := range b.size {
			m := Move{r, c}
			switch b.At(m) {
			case WhiteDisc:
				line += "○ "
			case BlackDisc:
				line += "● "
			default:
				if legal[m] {
					line += "· "
				} else {
					line += "  "
				}
			}
		}
		lines = append(lines, line+"|")
	}

	lines = append(lines, "+"+strings.Repeat("-", len(header)-2)+"+")

	return lines
}

// Print prints the board to the console. This is used for debugging.
func (b Board) Print(player Player) {
	for _, line := range b.ASCIIArtLines(player) {
		fmt.Println(line)
	}
}
