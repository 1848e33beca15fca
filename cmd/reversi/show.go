package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a board given in state notation",
		Long: `Print a board given in state notation: all cells in row-major order
using x for black, o for white and . for empty, followed by -b or -w for
the player to move. For example the 4x4 start is .....xo..ox.....-b`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.OutOrStdout(), board)
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "the board to show")
	_ = cmd.MarkFlagRequired("board")

	return cmd
}

func runShow(out io.Writer, board string) error {
	state, err := othello.ParseState(board)
	if err != nil {
		return err
	}

	printState(out, state)
	return nil
}

// printState prints the board with the legal moves of the player to move.
func printState(out io.Writer, state othello.State) {
	for _, line := range state.Board().ASCIIArtLines(state.Turn()) {
		fmt.Fprintln(out, line)
	}

	counts := state.Counts()
	fmt.Fprintf(out, "black: %d, white: %d, status: %s\n", counts.Black, counts.White, state.Status())

	if state.IsOver() {
		fmt.Fprintf(out, "result: %s\n", state.Outcome())
		return
	}

	moves := state.LegalMoves()
	fields := make([]string, len(moves))
	for i, move := range moves {
		fields[i] = move.String()
	}
	fmt.Fprintf(out, "%s to move: %s\n", state.Turn(), strings.Join(fields, " "))
}
