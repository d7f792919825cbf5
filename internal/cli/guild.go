package cli

import (
	"context"
	"errors"

	"github.com/samvad-hq/comlink-go/pkg/comlink"
	"github.com/spf13/cobra"
)

func newGuildCmd(opts *rootOptions) *cobra.Command {
	var (
		guildID        string
		recentActivity bool
	)

	cmd := &cobra.Command{
		Use:   "guild",
		Short: "Fetch a guild profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if guildID == "" {
				return errors.New("--id is required")
			}
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetGuild(ctx, comlink.GuildRequest{
					GuildID:                        guildID,
					IncludeRecentGuildActivityInfo: recentActivity,
					Enums:                          opts.enums,
				})
			})
		},
	}
	cmd.Flags().StringVar(&guildID, "id", "", "Guild id")
	cmd.Flags().BoolVar(&recentActivity, "recent-activity", false, "Include recent guild activity")
	return cmd
}

func newGuildsCmd(opts *rootOptions) *cobra.Command {
	var (
		name              string
		criteria          comlink.GuildSearchCriteria
		startIndex, count int
	)

	cmd := &cobra.Command{
		Use:   "guilds",
		Short: "Search guilds by name or criteria",
		Long: `Search guilds. With --name the search is by name, otherwise the
criteria flags are used.

Examples:
  comlink guilds --name "Galactic Legends"
  comlink guilds --min-members 45 --min-gp 400000000 --tb t05D`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				if name != "" {
					return c.GetGuildsByName(ctx, comlink.GuildSearchByNameRequest{
						Name:       name,
						StartIndex: startIndex,
						Count:      count,
						Enums:      opts.enums,
					})
				}
				return c.GetGuildsByCriteria(ctx, comlink.GuildSearchByCriteriaRequest{
					Criteria:   criteria,
					StartIndex: startIndex,
					Count:      count,
					Enums:      opts.enums,
				})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Guild name to search for")
	f.IntVar(&criteria.MinMemberCount, "min-members", 0, "Minimum member count")
	f.IntVar(&criteria.MaxMemberCount, "max-members", 0, "Maximum member count")
	f.BoolVar(&criteria.IncludeInviteOnly, "invite-only", false, "Include invite-only guilds")
	f.Int64Var(&criteria.MinGuildGalacticPower, "min-gp", 0, "Minimum guild galactic power")
	f.Int64Var(&criteria.MaxGuildGalacticPower, "max-gp", 0, "Maximum guild galactic power")
	f.StringSliceVar(&criteria.RecentTbParticipatedIn, "tb", nil, "Recent territory battle ids")
	f.IntVar(&startIndex, "start", 0, "Result offset")
	f.IntVar(&count, "count", 0, "Number of results (default 10)")
	return cmd
}

func newGuildLeaderboardCmd(opts *rootOptions) *cobra.Command {
	var (
		id    comlink.GuildLeaderboardID
		count int
	)

	cmd := &cobra.Command{
		Use:   "guild-leaderboard",
		Short: "Fetch a guild leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetGuildLeaderboard(ctx, comlink.GuildLeaderboardRequest{
					LeaderboardIDs: []comlink.GuildLeaderboardID{id},
					Count:          count,
					Enums:          opts.enums,
				})
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&id.LeaderboardType, "type", 0, "Guild leaderboard type")
	f.IntVar(&id.MonthOffset, "month-offset", 0, "0 for this month, -1 for last month")
	f.StringVar(&id.DefID, "def-id", "", "Leaderboard definition id (event based boards)")
	f.IntVar(&count, "count", 0, "Number of guilds (default 200)")
	return cmd
}
