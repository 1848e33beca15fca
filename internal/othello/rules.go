package othello

import (
	"errors"
	"fmt"
)

var ErrIllegalMove = errors.New("illegal move")

// captured returns the number of opponent discs that player would flip in
// direction d by playing at m. It is zero unless the run of opponent discs
// is closed by one of player's own discs.
func (b Board) captured(m Move, d direction, player Player) int {
	opponent := player.Opponent().Disc()
	own := player.Disc()

	count := 0
	cur := m.step(d)
	for b.InBounds(cur) {
		switch b.At(cur) {
		case opponent:
			count++
			cur = cur.step(d)
			continue
		case own:
			return count
		}
		return 0
	}
	return 0
}

// IsLegal reports whether player may place a disc at m. Occupied and out of
// bounds squares are never legal.
func (b Board) IsLegal(m Move, player Player) bool {
	if !player.Valid() || !b.InBounds(m) || b.At(m) != Empty {
		return false
	}

	for _, d := range directions {
		if b.captured(m, d, player) > 0 {
			return true
		}
	}
	return false
}

// Flips returns the opponent discs that would be flipped if player played m.
// The result is empty iff the move is illegal.
func (b Board) Flips(m Move, player Player) []Move {
	if !player.Valid() || !b.InBounds(m) || b.At(m) != Empty {
		return nil
	}

	var flips []Move
	for _, d := range directions {
		n := b.captured(m, d, player)
		cur := m
		for range n {
			cur = cur.step(d)
			flips = append(flips, cur)
		}
	}
	return flips
}

// Apply places a disc for player at m and flips all captured runs. On an
// illegal move the unchanged board is returned together with ErrIllegalMove.
func (b Board) Apply(m Move, player Player) (Board, error) {
	flips := b.Flips(m, player)
	if len(flips) == 0 {
		return b, fmt.Errorf("%w: %s for %s", ErrIllegalMove, m, player)
	}

	disc := player.Disc()
	next := b
	next.set(m, disc)
	for _, f := range flips {
		next.set(f, disc)
	}
	return next, nil
}

// LegalMoves returns all legal moves of player in row-major order.
func (b Board) LegalMoves(player Player) []Move {
	var moves []Move
	for r := range b.size {
		for c := range b.size {
			m := Move{r, c}
			if b.IsLegal(m, player) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// HasLegalMove reports whether player has at least one legal move.
func (b Board) HasLegalMove(player Player) bool {
	for r := range b.size {
		for c := range b.size {
			if b.IsLegal(Move{r, c}, player) {
				return true
			}
		}
	}
	return false
}
