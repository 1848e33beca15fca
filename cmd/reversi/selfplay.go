package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/spf13/cobra"
)

type selfplayOptions struct {
	size   int
	games  int
	seed   int64
	black  string
	white  string
	record string
}

type selfplaySummary struct {
	Games     int
	BlackWins int
	WhiteWins int
	Draws     int
}

func newSelfplayCmd() *cobra.Command {
	opts := selfplayOptions{}

	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Let two policies play each other",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := runSelfplay(cmd.OutOrStdout(), opts)
			return err
		},
	}

	cmd.Flags().IntVar(&opts.size, "size", 8, "board size")
	cmd.Flags().IntVar(&opts.games, "games", 10, "number of games to play")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "seed of the random policy")
	cmd.Flags().StringVar(&opts.black, "black", othello.PolicyGreedy, "policy playing black")
	cmd.Flags().StringVar(&opts.white, "white", othello.PolicyRandom, "policy playing white")
	cmd.Flags().StringVar(&opts.record, "record", "", "directory to write game records to")

	return cmd
}

func runSelfplay(out io.Writer, opts selfplayOptions) (selfplaySummary, error) {
	if err := othello.ValidateSize(opts.size); err != nil {
		return selfplaySummary{}, err
	}

	if opts.record != "" {
		if err := os.MkdirAll(opts.record, 0o755); err != nil {
			return selfplaySummary{}, fmt.Errorf("failed to create record directory: %w", err)
		}
	}

	var summary selfplaySummary

	for i := range opts.games {
		// Every game gets its own seeds, so games with a random policy differ.
		black, err := othello.PolicyByName(opts.black, opts.seed+int64(2*i))
		if err != nil {
			return summary, err
		}

		white, err := othello.PolicyByName(opts.white, opts.seed+int64(2*i+1))
		if err != nil {
			return summary, err
		}

		game, err := playPolicies(opts.size, black, white)
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", i+1, err)
		}

		outcome, _ := game.Outcome()
		summary.Games++
		switch outcome.Winner {
		case othello.Black:
			summary.BlackWins++
		case othello.White:
			summary.WhiteWins++
		default:
			summary.Draws++
		}

		fmt.Fprintf(out, "game %d: %s (%d moves)\n", i+1, outcome, len(game.Transitions()))

		if opts.record != "" {
			record := models.NewRecord(game, map[string]string{
				"Black": black.Name(),
				"White": white.Name(),
				"Round": strconv.Itoa(i + 1),
			})

			file := filepath.Join(opts.record, fmt.Sprintf("game-%03d.pgn", i+1))
			if err = os.WriteFile(file, []byte(record.String()), 0o600); err != nil {
				return summary, fmt.Errorf("failed to write record: %w", err)
			}

			slog.Debug("Wrote game record", "file", file)
		}
	}

	fmt.Fprintf(out, "black (%s) wins: %d, white (%s) wins: %d, draws: %d\n",
		opts.black, summary.BlackWins, opts.white, summary.WhiteWins, summary.Draws)

	return summary, nil
}

// playPolicies plays a complete game between two policies.
func playPolicies(size int, black, white othello.Policy) (*othello.Game, error) {
	game, err := othello.NewGame(othello.GameConfig{Size: size})
	if err != nil {
		return nil, err
	}

	for {
		state := game.State()
		if state.IsOver() {
			return game, nil
		}

		policy := black
		if state.Turn() == othello.White {
			policy = white
		}

		move, ok := policy.Choose(state.Board(), state.Turn())
		if !ok {
			return nil, fmt.Errorf("policy %s found no move for %s", policy.Name(), state.Turn())
		}

		if _, err = game.ActivateCell(move.Row, move.Col); err != nil {
			return nil, err
		}
	}
}
