package cli

import (
	"context"

	"github.com/samvad-hq/comlink-go/pkg/comlink"
	"github.com/spf13/cobra"
)

func newLeaderboardCmd(opts *rootOptions) *cobra.Command {
	var req comlink.LeaderboardRequest

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Fetch a player leaderboard",
		Long: `Fetch a player leaderboard.

Type 4 (event) uses --event-instance and --group. Type 6 (grand arena)
uses --league (20, 40, 60, 80, 100) and --division (25, 20, 15, 10, 5).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Enums = opts.enums
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetLeaderboard(ctx, req)
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&req.LeaderboardType, "type", comlink.LeaderboardGrandArena, "Leaderboard type")
	f.StringVar(&req.EventInstanceID, "event-instance", "", "Event instance id (type 4)")
	f.StringVar(&req.GroupID, "group", "", "Group id (type 4)")
	f.IntVar(&req.League, "league", comlink.LeagueKyber, "Grand arena league (type 6)")
	f.IntVar(&req.Division, "division", comlink.Division1, "Grand arena division (type 6)")
	return cmd
}
