package othello

import (
	"fmt"
	"math/rand"
)

const (
	PolicyGreedy = "greedy"
	PolicyRandom = "random"
)

// Policy selects a move for an automated player.
type Policy interface {
	// Name identifies the policy, it is stored with saved games.
	Name() string

	// Choose returns a legal move for player, or false if there is none.
	Choose(board Board, player Player) (Move, bool)
}

// Greedy picks the move that leaves player with the most discs. Ties are
// broken in favour of the first move in row-major order.
type Greedy struct{}

func (Greedy) Name() string {
	return PolicyGreedy
}

func (Greedy) Choose(board Board, player Player) (Move, bool) {
	best := Move{}
	bestScore := -1

	for _, m := range board.LegalMoves(player) {
		child, err := board.Apply(m, player)
		if err != nil {
			continue
		}

		if score := child.Counts().Of(player); score > bestScore {
			best = m
			bestScore = score
		}
	}

	return best, bestScore >= 0
}

// Random picks a uniformly random legal move. It is not safe for concurrent use.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random policy with a deterministic seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))} //nolint:gosec
}

func (*Random) Name() string {
	return PolicyRandom
}

func (r *Random) Choose(board Board, player Player) (Move, bool) {
	moves := board.LegalMoves(player)
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[r.rng.Intn(len(moves))], true
}

// PolicyByName returns the policy with the given name. The seed is only used
// by the random policy. An empty name selects the greedy policy.
func PolicyByName(name string, seed int64) (Policy, error) {
	switch name {
	case PolicyGreedy, "":
		return Greedy{}, nil
	case PolicyRandom:
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("unknown policy: %q", name)
	}
}
