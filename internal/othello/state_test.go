package othello

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// passBoard is a position where black plays c2, after which white has no
// legal move but black still has one.
func passBoard(t *testing.T) Board {
	t.Helper()
	return mustBoard(t,
		"oxxx",
		"xo..",
		"xxox",
		"x...",
	)
}

func TestNewState(t *testing.T) {
	state, err := NewState(4)
	require.NoError(t, err)

	require.Equal(t, FirstPlayer, state.Turn())
	require.Equal(t, InProgress, state.Status())
	require.NotEmpty(t, state.LegalMoves())
	require.Equal(t, ".....xo..ox.....-b", state.String())

	_, err = NewState(7)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestNewStateFromBoard(t *testing.T) {
	_, err := NewStateFromBoard(Board{}, Black)
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewStateFromBoard(passBoard(t), NoPlayer)
	require.Error(t, err)

	// White cannot move in this position, the turn goes to black.
	board := mustBoard(t,
		"oxxx",
		"xxx.",
		"xxox",
		"x...",
	)
	state, err := NewStateFromBoard(board, White)
	require.NoError(t, err)
	require.Equal(t, Black, state.Turn())
}

func TestParseState(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantTurn Player
	}{
		{name: "start", input: ".....xo..ox.....-b", wantErr: false, wantTurn: Black},
		{name: "white to move", input: "..x..xx..ox.....-w", wantErr: false, wantTurn: White},
		{name: "missing turn", input: ".....xo..ox.....", wantErr: true},
		{name: "bad turn", input: ".....xo..ox.....-x", wantErr: true},
		{name: "not a square", input: ".....xo..ox....-b", wantErr: true},
		{name: "odd size", input: ".........-b", wantErr: true},
		{name: "bad cell", input: ".....xo..ox....?-b", wantErr: true},
		{name: "too short", input: "b", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state, err := ParseState(test.input)
			if test.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.wantTurn, state.Turn())
			require.Equal(t, test.input, state.String())
		})
	}
}

func TestState_Apply(t *testing.T) {
	state, err := NewState(4)
	require.NoError(t, err)

	next, transition, err := state.Apply(Move{0, 2})
	require.NoError(t, err)

	require.Equal(t, Transition{
		Player:  Black,
		Move:    Move{0, 2},
		Flipped: []Move{{1, 2}},
	}, transition)
	require.Equal(t, White, next.Turn())
	require.Equal(t, Counts{Black: 4, White: 1, Empty: 11}, next.Counts())
	require.Equal(t, []Move{{0, 1}, {0, 3}, {2, 3}}, next.LegalMoves())

	// The previous state is not modified.
	require.Equal(t, Black, state.Turn())
	require.Equal(t, Counts{Black: 2, White: 2, Empty: 12}, state.Counts())
}

func TestState_ApplyIllegal(t *testing.T) {
	state, err := NewState(4)
	require.NoError(t, err)

	tests := []struct {
		name string
		move Move
	}{
		{name: "no capture", move: Move{0, 0}},
		{name: "occupied", move: Move{1, 1}},
		{name: "out of bounds", move: Move{-1, 2}},
		{name: "pass while having moves", move: PassMove},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			next, transition, err := state.Apply(test.move)
			require.ErrorIs(t, err, ErrIllegalMove)
			require.Equal(t, state, next)
			require.Equal(t, Transition{}, transition)
		})
	}
}

func TestState_ApplyPass(t *testing.T) {
	state, err := NewStateFromBoard(passBoard(t), Black)
	require.NoError(t, err)
	require.Equal(t, Black, state.Turn())

	next, transition, err := state.Apply(Move{1, 2})
	require.NoError(t, err)

	require.Equal(t, []Move{{1, 1}}, transition.Flipped)
	require.Equal(t, White, transition.Passed)
	require.False(t, transition.GameOver)

	// White passes, black keeps the turn.
	require.Equal(t, Black, next.Turn())
	require.Equal(t, InProgress, next.Status())
	require.Empty(t, next.Board().LegalMoves(White))
	require.Equal(t, []Move{{3, 2}, {3, 3}}, next.LegalMoves())
	require.Equal(t, Counts{Black: 10, White: 2, Empty: 4}, next.Counts())
}

func TestState_Status(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		turn Player
		want Status
	}{
		{name: "start", rows: []string{"....", ".xo.", ".ox.", "...."}, turn: Black, want: InProgress},
		{name: "white cannot move", rows: []string{"oxxx", "xxx.", "xxox", "x..."}, turn: Black, want: InProgress},
		{name: "full board", rows: []string{"xxxx", "xxxx", "oooo", "oooo"}, turn: Black, want: Over},
		{name: "one color left", rows: []string{"xx..", "....", "....", "...."}, turn: White, want: Over},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state, err := NewStateFromBoard(mustBoard(t, test.rows...), test.turn)
			require.NoError(t, err)
			require.Equal(t, test.want, state.Status())
		})
	}

	// Built directly, a state can have a player to move that must pass.
	state := State{board: mustBoard(t, "oxxx", "xxx.", "xxox", "x..."), turn: White}
	require.Equal(t, WhiteMustPass, state.Status())

	state = State{board: mustBoard(t, "xooo", "ooo.", "ooxo", "o..."), turn: Black}
	require.Equal(t, BlackMustPass, state.Status())
}

func TestState_Outcome(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		want     Outcome
		wantDraw bool
	}{
		{
			name:     "draw",
			rows:     []string{"xxxx", "xxxx", "oooo", "oooo"},
			want:     Outcome{Winner: NoPlayer, Black: 8, White: 8},
			wantDraw: true,
		},
		{
			name:     "black wins",
			rows:     []string{"xxxx", "xxxx", "xooo", "oooo"},
			want:     Outcome{Winner: Black, Black: 9, White: 7},
			wantDraw: false,
		},
		{
			name:     "white wins with empty cells",
			rows:     []string{"oo..", "....", "....", "...."},
			want:     Outcome{Winner: White, Black: 0, White: 2},
			wantDraw: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state, err := NewStateFromBoard(mustBoard(t, test.rows...), Black)
			require.NoError(t, err)
			require.Equal(t, Over, state.Status())
			require.True(t, state.IsOver())
			require.Equal(t, test.want, state.Outcome())
			require.Equal(t, test.wantDraw, state.Outcome().IsDraw())
		})
	}
}

func TestState_ApplyAfterGameOver(t *testing.T) {
	state, err := NewStateFromBoard(mustBoard(t, "xxxx", "xxxx", "oooo", "oooo"), Black)
	require.NoError(t, err)

	next, _, err := state.Apply(Move{0, 0})
	require.ErrorIs(t, err, ErrGameOver)
	require.Equal(t, state, next)
}

func TestState_ApplyEndsGame(t *testing.T) {
	// Black fills the last empty cell.
	state, err := NewStateFromBoard(mustBoard(t, "xxxx", "xxxx", "oooo", "ooo."), Black)
	require.NoError(t, err)

	next, transition, err := state.Apply(Move{3, 3})
	require.NoError(t, err)
	require.True(t, transition.GameOver)
	require.Equal(t, NoPlayer, transition.Passed)
	require.Equal(t, Over, next.Status())
	require.Equal(t, []Move{{2, 2}, {2, 3}}, transition.Flipped)
	require.Equal(t, Outcome{Winner: Black, Black: 11, White: 5}, next.Outcome())
}
