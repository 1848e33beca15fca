package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/lk16/flippy/reversi/internal/tui"
	"github.com/spf13/cobra"
)

type playOptions struct {
	size      int
	automated string
	policy    string
	seed      int64
	record    string
}

func newPlayCmd() *cobra.Command {
	opts := playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: `Play a game in the terminal. Defaults are read from REVERSI_DEFAULT_SIZE,
REVERSI_DEFAULT_AUTOMATED and REVERSI_DEFAULT_POLICY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := playSettings(cmd, config.LoadPlayConfig(), opts)
			if err != nil {
				return err
			}
			return runPlay(settings, opts)
		},
	}

	cmd.Flags().IntVar(&opts.size, "size", othello.DefaultSize, "board size")
	cmd.Flags().StringVar(&opts.automated, "automated", "none", "side played by the computer: black, white or none")
	cmd.Flags().StringVar(&opts.policy, "policy", othello.PolicyGreedy, "policy of the computer: greedy or random")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed of the random policy, 0 uses the current time")
	cmd.Flags().StringVar(&opts.record, "record", "", "file to write the game record to")

	return cmd
}

// playSettings applies the flags that were set on top of the configured defaults.
func playSettings(cmd *cobra.Command, cfg *config.PlayConfig, opts playOptions) (models.GameSettings, error) {
	settings := cfg.Settings()

	if cmd.Flags().Changed("size") {
		settings.Size = opts.size
	}

	if cmd.Flags().Changed("automated") {
		automated, err := othello.ParsePlayer(opts.automated)
		if err != nil {
			return models.GameSettings{}, err
		}
		settings.Automated = automated
	}

	if cmd.Flags().Changed("policy") {
		settings.Policy = opts.policy
	}

	return settings, settings.Validate()
}

func runPlay(settings models.GameSettings, opts playOptions) error {
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gameConfig, err := settings.GameConfig(seed)
	if err != nil {
		return err
	}

	game, err := othello.NewGame(gameConfig)
	if err != nil {
		return err
	}

	if _, err = tea.NewProgram(tui.NewModel(game), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}

	if outcome, ok := game.Outcome(); ok {
		fmt.Println(outcome)
	}

	if opts.record == "" {
		return nil
	}

	record := models.NewRecord(game, map[string]string{
		"Automated": settings.Automated.String(),
		"Policy":    settings.Policy,
	})

	if err = os.WriteFile(opts.record, []byte(record.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}
