package main

import (
	"fmt"
	"io"

	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/spf13/cobra"
)

func newReplayCmd() *cobra.Command {
	var steps bool

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a recorded game",
		Long: `Replay a game record, as written by selfplay --record or play --record,
and print the final position. With --steps every position is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.OutOrStdout(), args[0], steps)
		},
	}

	cmd.Flags().BoolVar(&steps, "steps", false, "print every position")

	return cmd
}

func runReplay(out io.Writer, file string, steps bool) error {
	record, err := models.ReadRecord(file)
	if err != nil {
		return err
	}

	for _, key := range []string{"Black", "White"} {
		if value, ok := record.Tags[key]; ok {
			fmt.Fprintf(out, "%s: %s\n", key, value)
		}
	}

	if !steps {
		game, err := record.Game()
		if err != nil {
			return err
		}

		printState(out, game.State())
		return nil
	}

	size, err := record.Size()
	if err != nil {
		return err
	}

	game, err := othello.NewGame(othello.GameConfig{Size: size})
	if err != nil {
		return err
	}

	game.OnTransition(func(transition othello.Transition) {
		fmt.Fprintf(out, "\n%s plays %s\n", transition.Player, transition.Move)
		printState(out, game.State())
	})

	printState(out, game.State())

	for _, move := range record.Moves {
		if move.IsPass() {
			continue
		}

		if _, err = game.ActivateCell(move.Row, move.Col); err != nil {
			return fmt.Errorf("failed to replay %s: %w", move, err)
		}
	}

	return nil
}
