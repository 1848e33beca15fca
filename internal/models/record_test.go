package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	content := "[Black \"alice\"]\n[Size \"4\"]\n[White \"bob\"]\n\n1. c1 b1 *\n"

	record, err := ParseRecord(content)
	require.NoError(t, err)

	require.Equal(t, map[string]string{"Black": "alice", "Size": "4", "White": "bob"}, record.Tags)
	require.Equal(t, MoveList{{Row: 0, Col: 2}, {Row: 0, Col: 1}}, record.Moves)

	game, err := record.Game()
	require.NoError(t, err)
	require.Equal(t, []string{".ox.", ".ox.", ".ox.", "...."}, game.Board().Rows())
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "broken tag", content: "[Size 4]\n\n1. c1\n"},
		{name: "broken move", content: "[Size \"4\"]\n\n1. c1 zz\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseRecord(test.content)
			require.Error(t, err)
		})
	}
}

func TestRecordSize(t *testing.T) {
	tests := []struct {
		name    string
		tags    map[string]string
		want    int
		wantErr bool
	}{
		{name: "missing", tags: map[string]string{}, want: 8},
		{name: "set", tags: map[string]string{"Size": "6"}, want: 6},
		{name: "odd", tags: map[string]string{"Size": "5"}, wantErr: true},
		{name: "not a number", tags: map[string]string{"Size": "big"}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record := &Record{Tags: test.tags}

			size, err := record.Size()
			if test.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.want, size)
		})
	}
}

func TestRecordString(t *testing.T) {
	game, err := othello.NewGame(othello.GameConfig{Size: 4})
	require.NoError(t, err)

	_, err = game.ActivateCell(0, 2)
	require.NoError(t, err)
	_, err = game.ActivateCell(0, 1)
	require.NoError(t, err)

	record := NewRecord(game, map[string]string{"Black": "alice", "Size": "16"})

	expected := "[Black \"alice\"]\n[Result \"*\"]\n[Size \"4\"]\n\n1. c1 b1 *\n"
	require.Equal(t, expected, record.String())
}

func TestRecordRoundTrip(t *testing.T) {
	for _, size := range []int{4, 6, 8} {
		game, err := othello.NewGame(othello.GameConfig{Size: size})
		require.NoError(t, err)
		playToEnd(t, game)

		file := filepath.Join(t.TempDir(), "game.pgn")
		require.NoError(t, os.WriteFile(file, []byte(NewRecord(game, nil).String()), 0o600))

		record, err := ReadRecord(file)
		require.NoError(t, err)

		outcome, ok := game.Outcome()
		require.True(t, ok)
		require.NotEqual(t, "*", record.Tags["Result"])

		replayed, err := record.Game()
		require.NoError(t, err)
		require.True(t, game.Board().Equal(replayed.Board()))
		require.Equal(t, game.Moves(), replayed.Moves())

		replayedOutcome, ok := replayed.Outcome()
		require.True(t, ok)
		require.Equal(t, outcome, replayedOutcome)
	}
}
