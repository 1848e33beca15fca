package main

import (
	"context"
	"fmt"
	"io"

	"github.com/lk16/flippy/reversi/internal/client"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/spf13/cobra"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Play a game hosted by a running server",
		Long: `Play a game hosted by a running server. The server is read from
REVERSI_SERVER_URL, the stats subcommand also needs REVERSI_SERVER_TOKEN.`,
	}

	var (
		size      int
		automated string
		policy    string
	)

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Create a game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := models.NewGameRequest{Size: size, Policy: policy}

			if cmd.Flags().Changed("automated") {
				player, err := othello.ParsePlayer(automated)
				if err != nil {
					return err
				}
				req.Automated = &player
			}

			return runRemote(cmd, func(ctx context.Context, c *client.Client) (models.GameResponse, error) {
				return c.CreateGame(ctx, req)
			})
		},
	}
	newCmd.Flags().IntVar(&size, "size", 0, "board size, the server default if omitted")
	newCmd.Flags().StringVar(&automated, "automated", "", "automated side: black, white or none")
	newCmd.Flags().StringVar(&policy, "policy", "", "policy of the automated side: greedy or random")

	getCmd := &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(cmd, func(ctx context.Context, c *client.Client) (models.GameResponse, error) {
				return c.GetGame(ctx, args[0])
			})
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move <game-id> <field>",
		Short: "Place a disc, for example: move <game-id> c4",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(cmd, func(ctx context.Context, c *client.Client) (models.GameResponse, error) {
				return c.ActivateCell(ctx, args[0], models.MoveRequest{Field: args[1]})
			})
		},
	}

	undoCmd := &cobra.Command{
		Use:   "undo <game-id>",
		Short: "Take back the last move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(cmd, func(ctx context.Context, c *client.Client) (models.GameResponse, error) {
				return c.Undo(ctx, args[0])
			})
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset <game-id>",
		Short: "Restart a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(cmd, func(ctx context.Context, c *client.Client) (models.GameResponse, error) {
				return c.Reset(ctx, args[0])
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewClient(config.LoadClientConfig())
			if err := c.DeleteGame(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show finished game statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.NewClient(config.LoadClientConfig())

			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}

			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.AddCommand(newCmd, getCmd, moveCmd, undoCmd, resetCmd, deleteCmd, statsCmd)
	return cmd
}

type remoteCall func(ctx context.Context, c *client.Client) (models.GameResponse, error)

func runRemote(cmd *cobra.Command, call remoteCall) error {
	c := client.NewClient(config.LoadClientConfig())

	game, err := call(cmd.Context(), c)
	if err != nil {
		return err
	}

	return printGame(cmd.OutOrStdout(), game)
}

// printGame prints a game returned by the server, including the moves the
// server played while handling the request.
func printGame(out io.Writer, game models.GameResponse) error {
	board, err := othello.NewBoardFromRows(game.Board)
	if err != nil {
		return fmt.Errorf("server returned an invalid board: %w", err)
	}

	turn := game.Turn
	if !turn.Valid() {
		turn = othello.FirstPlayer
	}

	state, err := othello.NewStateFromBoard(board, turn)
	if err != nil {
		return fmt.Errorf("server returned an invalid state: %w", err)
	}

	fmt.Fprintf(out, "game: %s\n", game.ID)

	for _, transition := range game.Transitions {
		fmt.Fprintf(out, "%s plays %s\n", transition.Player, transition.Move)
	}

	printState(out, state)
	return nil
}

func printStats(out io.Writer, stats models.StatsResponse) {
	fmt.Fprintf(out, "live games: %d\n", stats.LiveGames)
	fmt.Fprintf(out, "finished games: %d (black %d, white %d, draws %d)\n",
		stats.Archive.Games, stats.Archive.BlackWins, stats.Archive.WhiteWins, stats.Archive.Draws)

	for _, game := range stats.RecentGames {
		fmt.Fprintf(out, "%s %d-%d %s\n", game.ID, game.Black, game.White, game.Winner)
	}
}
