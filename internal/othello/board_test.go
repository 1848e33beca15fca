package othello

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, rows ...string) Board {
	t.Helper()
	board, err := NewBoardFromRows(rows)
	require.NoError(t, err)
	return board
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "minimum", size: 4, wantErr: false},
		{name: "standard", size: 8, wantErr: false},
		{name: "maximum", size: 16, wantErr: false},
		{name: "too small", size: 2, wantErr: true},
		{name: "odd", size: 5, wantErr: true},
		{name: "too large", size: 18, wantErr: true},
		{name: "zero", size: 0, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateSize(test.size)
			if test.wantErr {
				require.ErrorIs(t, err, ErrInvalidSize)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewBoardStart(t *testing.T) {
	board, err := NewBoardStart(4)
	require.NoError(t, err)

	require.Equal(t, 4, board.Size())
	require.Equal(t, []string{"....", ".xo.", ".ox.", "...."}, board.Rows())
	require.Equal(t, Counts{Black: 2, White: 2, Empty: 12}, board.Counts())

	board, err = NewBoardStart(8)
	require.NoError(t, err)

	require.Equal(t, BlackDisc, board.At(Move{3, 3}))
	require.Equal(t, BlackDisc, board.At(Move{4, 4}))
	require.Equal(t, WhiteDisc, board.At(Move{3, 4}))
	require.Equal(t, WhiteDisc, board.At(Move{4, 3}))
	require.Equal(t, Counts{Black: 2, White: 2, Empty: 60}, board.Counts())

	_, err = NewBoardStart(3)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestNewBoardFromRows(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		wantErr bool
	}{
		{name: "valid", rows: []string{"x...", ".o..", "....", "...."}, wantErr: false},
		{name: "alternative characters", rows: []string{"B-W-", "----", "----", "----"}, wantErr: false},
		{name: "short row", rows: []string{"x..", "....", "....", "...."}, wantErr: true},
		{name: "bad character", rows: []string{"x..?", "....", "....", "...."}, wantErr: true},
		{name: "bad size", rows: []string{"...", "...", "..."}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewBoardFromRows(test.rows)
			if test.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBoard_At(t *testing.T) {
	board := mustBoard(t, "x...", ".o..", "....", "....")

	require.Equal(t, BlackDisc, board.At(Move{0, 0}))
	require.Equal(t, WhiteDisc, board.At(Move{1, 1}))
	require.Equal(t, Empty, board.At(Move{2, 2}))
	require.Equal(t, Empty, board.At(Move{-1, 0}))
	require.Equal(t, Empty, board.At(Move{0, 4}))
}

func TestBoard_Equal(t *testing.T) {
	a := mustBoard(t, "....", ".xo.", ".ox.", "....")
	b, err := NewBoardStart(4)
	require.NoError(t, err)

	require.True(t, a.Equal(b))

	c := mustBoard(t, "x...", ".xo.", ".ox.", "....")
	require.False(t, a.Equal(c))
}

func TestBoard_ASCIIArtLines(t *testing.T) {
	board, err := NewBoardStart(4)
	require.NoError(t, err)

	lines := board.ASCIIArtLines(Black)
	require.Len(t, lines, 6)
	require.Equal(t, "+-a-b-c-d-+", lines[0])
	require.Equal(t, "+---------+", lines[5])
	require.Contains(t, lines[1], "·")
	require.Contains(t, lines[2], "●")
	require.Contains(t, lines[2], "○")

	board, err = NewBoardStart(10)
	require.NoError(t, err)

	lines = board.ASCIIArtLines(NoPlayer)
	require.Len(t, lines, 12)
	require.Equal(t, "+--a-b-c-d-e-f-g-h-i-j-+", lines[0])
	require.NotContains(t, lines[4], "·")
}
