package cli

import (
	"context"
	"errors"

	"github.com/samvad-hq/comlink-go/pkg/comlink"
	"github.com/spf13/cobra"
)

func newPlayerCmd(opts *rootOptions) *cobra.Command {
	var allyCode, playerID string

	cmd := &cobra.Command{
		Use:   "player",
		Short: "Fetch a player profile",
		Long: `Fetch a player profile by ally code or player id.

Examples:
  comlink player --allycode 123-456-789
  comlink player --player-id abc123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if allyCode == "" && playerID == "" {
				return errors.New("one of --allycode or --player-id is required")
			}
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetPlayer(ctx, comlink.PlayerRequest{
					AllyCode: allyCode,
					PlayerID: playerID,
					Enums:    opts.enums,
				})
			})
		},
	}
	cmd.Flags().StringVar(&allyCode, "allycode", "", "Player ally code (dashes allowed)")
	cmd.Flags().StringVar(&playerID, "player-id", "", "Player id")
	return cmd
}

func newArenaCmd(opts *rootOptions) *cobra.Command {
	var (
		allyCode, playerID string
		detailsOnly        bool
	)

	cmd := &cobra.Command{
		Use:   "arena",
		Short: "Fetch a player's arena profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if allyCode == "" && playerID == "" {
				return errors.New("one of --allycode or --player-id is required")
			}
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetPlayerArena(ctx, comlink.PlayerArenaRequest{
					AllyCode:          allyCode,
					PlayerID:          playerID,
					PlayerDetailsOnly: detailsOnly,
					Enums:             opts.enums,
				})
			})
		},
	}
	cmd.Flags().StringVar(&allyCode, "allycode", "", "Player ally code (dashes allowed)")
	cmd.Flags().StringVar(&playerID, "player-id", "", "Player id")
	cmd.Flags().BoolVar(&detailsOnly, "details-only", false, "Only return player details")
	return cmd
}
