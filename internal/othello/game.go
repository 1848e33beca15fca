package othello

import (
	"errors"
	"fmt"
	"slices"
)

var ErrNotYourTurn = errors.New("not your turn")

// GameConfig decides the board size and which side, if any, is played by a Policy.
type GameConfig struct {
	Size int

	// Automated is the side played by Policy. NoPlayer means both sides are human.
	Automated Player

	// Policy selects the moves of the automated side. Nil means Greedy.
	Policy Policy
}

// Game is an Othello game, either complete or in progress.
type Game struct {
	config GameConfig

	// states contains the initial state followed by the state after every move.
	states []State

	// transitions[i] leads from states[i] to states[i+1].
	transitions []Transition

	// onTransition is called after every accepted move.
	onTransition func(Transition)
}

// NewGame creates a new game with a freshly seeded board.
func NewGame(config GameConfig) (*Game, error) {
	if config.Size == 0 {
		config.Size = DefaultSize
	}

	if config.Policy == nil {
		config.Policy = Greedy{}
	}

	if config.Automated != NoPlayer && !config.Automated.Valid() {
		return nil, fmt.Errorf("invalid automated player: %d", config.Automated)
	}

	start, err := NewState(config.Size)
	if err != nil {
		return nil, err
	}

	return &Game{
		config: config,
		states: []State{start},
	}, nil
}

// NewGameFromMoves creates a game and replays moves on it. Pass moves are
// skipped, they are implied by the position.
func NewGameFromMoves(config GameConfig, moves []Move) (*Game, error) {
	game, err := NewGame(config)
	if err != nil {
		return nil, err
	}

	for i, move := range moves {
		if move.IsPass() {
			continue
		}

		if _, err := game.push(move); err != nil {
			return nil, fmt.Errorf("failed to replay move %d (%s): %w", i, move, err)
		}
	}

	return game, nil
}

// Config returns the configuration of the game.
func (g *Game) Config() GameConfig {
	return g.config
}

// OnTransition registers a function that is called after every accepted move.
func (g *Game) OnTransition(fn func(Transition)) {
	g.onTransition = fn
}

// State returns the current state.
func (g *Game) State() State {
	return g.states[len(g.states)-1]
}

// Board returns the current board.
func (g *Game) Board() Board {
	return g.State().Board()
}

// CurrentPlayer returns the player to move.
func (g *Game) CurrentPlayer() Player {
	return g.State().Turn()
}

// Counts returns the disc counts of the current board.
func (g *Game) Counts() Counts {
	return g.State().Counts()
}

// Status returns the status of the current state.
func (g *Game) Status() Status {
	return g.State().Status()
}

// LegalMoves returns the legal moves of the player to move.
func (g *Game) LegalMoves() []Move {
	return g.State().LegalMoves()
}

// Outcome returns the result of the game once it is over.
func (g *Game) Outcome() (Outcome, bool) {
	state := g.State()
	if !state.IsOver() {
		return Outcome{}, false
	}
	return state.Outcome(), true
}

// IsAutomated reports whether player is controlled by the policy.
func (g *Game) IsAutomated(player Player) bool {
	return g.config.Automated != NoPlayer && g.config.Automated == player
}

// ActivateCell plays a move for the human side to move.
func (g *Game) ActivateCell(row, col int) (Transition, error) {
	state := g.State()

	if state.IsOver() {
		return Transition{}, ErrGameOver
	}

	if g.IsAutomated(state.Turn()) {
		return Transition{}, ErrNotYourTurn
	}

	return g.push(Move{Row: row, Col: col})
}

// Step plays a single move for the automated side. It returns false if it is
// not the automated side's turn or the game is over.
func (g *Game) Step() (Transition, bool, error) {
	state := g.State()

	if state.IsOver() || !g.IsAutomated(state.Turn()) {
		return Transition{}, false, nil
	}

	move, ok := g.config.Policy.Choose(state.Board(), state.Turn())
	if !ok {
		return Transition{}, false, nil
	}

	transition, err := g.push(move)
	if err != nil {
		return Transition{}, false, fmt.Errorf("policy %s chose a bad move: %w", g.config.Policy.Name(), err)
	}

	return transition, true, nil
}

// RunAutomated keeps calling Step until a human is to move or the game ends.
func (g *Game) RunAutomated() ([]Transition, error) {
	var transitions []Transition
	for {
		transition, ok, err := g.Step()
		if err != nil {
			return transitions, err
		}
		if !ok {
			return transitions, nil
		}
		transitions = append(transitions, transition)
	}
}

// push applies a move for the player to move.
func (g *Game) push(move Move) (Transition, error) {
	next, transition, err := g.State().Apply(move)
	if err != nil {
		return Transition{}, err
	}

	g.states = append(g.states, next)
	g.transitions = append(g.transitions, transition)

	if g.onTransition != nil {
		g.onTransition(transition)
	}

	return transition, nil
}

// Undo takes back the last move, along with the automated moves that
// preceded it, so that a human is to move again. It returns false if there
// is nothing to undo.
func (g *Game) Undo() bool {
	if len(g.transitions) == 0 {
		return false
	}

	g.pop()
	for len(g.transitions) > 0 && g.IsAutomated(g.CurrentPlayer()) {
		g.pop()
	}

	return true
}

func (g *Game) pop() {
	g.states = g.states[:len(g.states)-1]
	g.transitions = g.transitions[:len(g.transitions)-1]
}

// Reset re-seeds the board and returns to the initial state.
func (g *Game) Reset() {
	g.states = g.states[:1]
	g.transitions = g.transitions[:0]
}

// Clone returns a copy of the game. Moves played on the copy do not affect g.
// The policy and the OnTransition callback are shared.
func (g *Game) Clone() *Game {
	return &Game{
		config:       g.config,
		states:       slices.Clone(g.states),
		transitions:  slices.Clone(g.transitions),
		onTransition: g.onTransition,
	}
}

// Transitions returns a copy of all transitions so far.
func (g *Game) Transitions() []Transition {
	transitions := make([]Transition, len(g.transitions))
	copy(transitions, g.transitions)
	return transitions
}

// LastTransition returns the most recent transition, if any.
func (g *Game) LastTransition() (Transition, bool) {
	if len(g.transitions) == 0 {
		return Transition{}, false
	}
	return g.transitions[len(g.transitions)-1], true
}

// Moves returns the move history. A PassMove follows every move after which
// the opponent had to pass.
func (g *Game) Moves() []Move {
	moves := make([]Move, 0, len(g.transitions))
	for _, t := range g.transitions {
		moves = append(moves, t.Move)
		if t.Passed != NoPlayer {
			moves = append(moves, PassMove)
		}
	}
	return moves
}
