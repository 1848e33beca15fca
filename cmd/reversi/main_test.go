package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/lk16/flippy/reversi/internal/client"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/lk16/flippy/reversi/internal/tests"
	"github.com/stretchr/testify/require"
)

func TestRunShow(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, runShow(&out, ".....xo..ox.....-b"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, "+-a-b-c-d-+", lines[0])
	require.Equal(t, "+---------+", lines[5])
	require.Equal(t, "black: 2, white: 2, status: in_progress", lines[6])
	require.Equal(t, "black to move: c1 d2 a3 b4", lines[7])
}

func TestRunShowInvalid(t *testing.T) {
	var out bytes.Buffer

	require.Error(t, runShow(&out, ".....xo..ox.....-x"))
	require.Error(t, runShow(&out, "...-b"))
	require.Empty(t, out.String())
}

func TestRunSelfplay(t *testing.T) {
	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "records")

	summary, err := runSelfplay(&out, selfplayOptions{
		size:   6,
		games:  3,
		seed:   42,
		black:  othello.PolicyGreedy,
		white:  othello.PolicyRandom,
		record: dir,
	})
	require.NoError(t, err)

	require.Equal(t, 3, summary.Games)
	require.Equal(t, 3, summary.BlackWins+summary.WhiteWins+summary.Draws)
	require.Contains(t, out.String(), "game 3: ")

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	record, err := models.ReadRecord(filepath.Join(dir, "game-001.pgn"))
	require.NoError(t, err)
	require.Equal(t, "greedy", record.Tags["Black"])
	require.Equal(t, "random", record.Tags["White"])
	require.Equal(t, "6", record.Tags["Size"])

	game, err := record.Game()
	require.NoError(t, err)
	_, over := game.Outcome()
	require.True(t, over)
}

func TestRunSelfplayDeterministic(t *testing.T) {
	opts := selfplayOptions{size: 8, games: 2, seed: 7, black: othello.PolicyRandom, white: othello.PolicyRandom}

	var first, second bytes.Buffer

	_, err := runSelfplay(&first, opts)
	require.NoError(t, err)

	_, err = runSelfplay(&second, opts)
	require.NoError(t, err)

	require.Equal(t, first.String(), second.String())
}

func TestRunSelfplayInvalid(t *testing.T) {
	var out bytes.Buffer

	_, err := runSelfplay(&out, selfplayOptions{size: 7, games: 1, black: othello.PolicyGreedy, white: othello.PolicyGreedy})
	require.ErrorIs(t, err, othello.ErrInvalidSize)

	_, err = runSelfplay(&out, selfplayOptions{size: 4, games: 1, black: "minimax", white: othello.PolicyGreedy})
	require.Error(t, err)
}

func TestRunReplay(t *testing.T) {
	game, err := playPolicies(4, othello.Greedy{}, othello.Greedy{})
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "game.pgn")
	record := models.NewRecord(game, map[string]string{"Black": "alice", "White": "bob"})
	require.NoError(t, os.WriteFile(file, []byte(record.String()), 0o600))

	outcome, ok := game.Outcome()
	require.True(t, ok)

	var out bytes.Buffer
	require.NoError(t, runReplay(&out, file, false))
	require.True(t, strings.HasPrefix(out.String(), "Black: alice\nWhite: bob\n"))
	require.Contains(t, out.String(), "result: "+outcome.String())

	out.Reset()
	require.NoError(t, runReplay(&out, file, true))
	require.Equal(t, len(game.Transitions()), strings.Count(out.String(), " plays "))
	require.Contains(t, out.String(), "result: "+outcome.String())
}

func TestPlaySettings(t *testing.T) {
	defaults := &config.PlayConfig{Size: 6, Automated: othello.White, Policy: othello.PolicyRandom}

	tests := []struct {
		name    string
		args    []string
		want    models.GameSettings
		wantErr bool
	}{
		{
			name: "defaults",
			args: nil,
			want: models.GameSettings{Size: 6, Automated: othello.White, Policy: othello.PolicyRandom},
		},
		{
			name: "flags override defaults",
			args: []string{"--size", "8", "--automated", "none", "--policy", "greedy"},
			want: models.GameSettings{Size: 8, Automated: othello.NoPlayer, Policy: othello.PolicyGreedy},
		},
		{
			name:    "invalid size",
			args:    []string{"--size", "3"},
			wantErr: true,
		},
		{
			name:    "invalid player",
			args:    []string{"--automated", "purple"},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cmd := newPlayCmd()
			require.NoError(t, cmd.ParseFlags(test.args))

			opts := playOptions{}
			opts.size, _ = cmd.Flags().GetInt("size")
			opts.automated, _ = cmd.Flags().GetString("automated")
			opts.policy, _ = cmd.Flags().GetString("policy")

			settings, err := playSettings(cmd, defaults, opts)
			if test.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.want, settings)
		})
	}
}

func TestRemote(t *testing.T) {
	server := httptest.NewServer(adaptor.FiberApp(tests.NewApp(t)))
	t.Cleanup(server.Close)

	t.Setenv("REVERSI_SERVER_URL", server.URL)
	t.Setenv("REVERSI_SERVER_TOKEN", tests.TestToken)

	remote := func(args ...string) (string, error) {
		var out bytes.Buffer

		cmd := newRemoteCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)

		err := cmd.ExecuteContext(context.Background())
		return out.String(), err
	}

	out, err := remote("new", "--automated", "white")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "game: "))
	require.Contains(t, out, "black to move: c1 d2 a3 b4")

	gameID := strings.TrimPrefix(strings.SplitN(out, "\n", 2)[0], "game: ")

	out, err = remote("move", gameID, "c1")
	require.NoError(t, err)
	require.Contains(t, out, "black plays c1\nwhite plays b1\n")

	_, err = remote("move", gameID, "a1")
	require.ErrorContains(t, err, othello.ErrIllegalMove.Error())

	out, err = remote("undo", gameID)
	require.NoError(t, err)
	require.Contains(t, out, "black: 2, white: 2")

	out, err = remote("stats")
	require.NoError(t, err)
	require.Contains(t, out, "live games: 1\nfinished games: 0 (black 0, white 0, draws 0)\n")

	out, err = remote("delete", gameID)
	require.NoError(t, err)
	require.Equal(t, "deleted "+gameID+"\n", out)

	_, err = remote("get", gameID)
	require.True(t, client.IsStatus(err, http.StatusNotFound))
}

func TestPrintGameInvalidBoard(t *testing.T) {
	var out bytes.Buffer

	err := printGame(&out, models.GameResponse{Board: []string{"xo", "o"}})
	require.Error(t, err)
	require.Empty(t, out.String())
}
