package othello

import "fmt"

// Cell is the content of a single board square.
type Cell uint8

const (
	Empty Cell = iota
	BlackDisc
	WhiteDisc
)

// Player is one of the two sides of a game.
type Player uint8

const (
	// NoPlayer is used where a player is optional: no automated side, no pass, a draw.
	NoPlayer Player = iota
	Black
	White
)

// FirstPlayer moves first in every new game.
const FirstPlayer = Black

// Opponent returns the other player.
func (p Player) Opponent() Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	default:
		return NoPlayer
	}
}

// Disc returns the cell value occupied by this player.
func (p Player) Disc() Cell {
	switch p {
	case Black:
		return BlackDisc
	case White:
		return WhiteDisc
	default:
		return Empty
	}
}

// Valid reports whether p is Black or White.
func (p Player) Valid() bool {
	return p == Black || p == White
}

func (p Player) String() string {
	switch p {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "none"
	}
}

// ParsePlayer converts "black", "white" or "none" (also "b", "w", "") into a Player.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	case "none", "":
		return NoPlayer, nil
	default:
		return NoPlayer, fmt.Errorf("invalid player: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Player) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Player) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Owner returns the player owning the cell, or NoPlayer for an empty cell.
func (c Cell) Owner() Player {
	switch c {
	case BlackDisc:
		return Black
	case WhiteDisc:
		return White
	default:
		return NoPlayer
	}
}

// Rune returns the character used for the cell in board strings.
func (c Cell) Rune() rune {
	switch c {
	case BlackDisc:
		return 'x'
	case WhiteDisc:
		return 'o'
	default:
		return '.'
	}
}

func cellFromRune(r rune) (Cell, error) {
	switch r {
	case 'x', 'X', 'b', 'B':
		return BlackDisc, nil
	case 'o', 'O', 'w', 'W':
		return WhiteDisc, nil
	case '.', '-', ' ':
		return Empty, nil
	default:
		return Empty, fmt.Errorf("invalid cell character: %q", r)
	}
}
