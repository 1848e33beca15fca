package main

import (
	"os"

	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reversi",
	Short: "Play and inspect Othello games in the terminal",
	Long: `reversi is a terminal client for the Othello rule engine.

Available subcommands:
  play     - Play a game against a human or an automated opponent
  show     - Print a board given in state notation
  selfplay - Let two policies play each other
  replay   - Replay a recorded game
  remote   - Play a game hosted by a running server`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		config.SetLogLevel()
	},
}

func init() {
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newSelfplayCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newRemoteCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
