package cli

import (
	"context"

	"github.com/samvad-hq/comlink-go/pkg/comlink"
	"github.com/spf13/cobra"
)

func newMetadataCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Fetch server metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetMetadata(ctx, comlink.MetadataRequest{Enums: opts.enums})
			})
		},
	}
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the latest game data and localization versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetLatestGameVersion(ctx)
			})
		},
	}
}

func newEventsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Fetch the current game events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetEvents(ctx, comlink.EventsRequest{Enums: opts.enums})
			})
		},
	}
}

func newLocalizationCmd(opts *rootOptions) *cobra.Command {
	var req comlink.LocalizationRequest

	cmd := &cobra.Command{
		Use:   "localization",
		Short: "Fetch a localization bundle",
		Long: `Fetch a localization bundle. Without --id the latest bundle version
is looked up first. The bundle is returned base64 encoded unless --unzip.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Enums = opts.enums
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetLocalization(ctx, req)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.ID, "id", "", "Localization bundle version")
	f.StringVar(&req.Locale, "locale", "", "Single locale, e.g. ENG_US")
	f.BoolVar(&req.Unzip, "unzip", false, "Ask the server to unzip the bundle")
	return cmd
}

func newDataCmd(opts *rootOptions) *cobra.Command {
	var req comlink.GameDataRequest

	cmd := &cobra.Command{
		Use:   "data",
		Short: "Fetch a game data segment",
		Long: `Fetch game data. Without --version the latest game data version is
looked up first. --items takes precedence over --segment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Enums = opts.enums
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetGameData(ctx, req)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Version, "version", "", "Game data version")
	f.BoolVar(&req.IncludePveUnits, "pve-units", false, "Include PvE units")
	f.IntVar(&req.RequestSegment, "segment", 0, "Request segment (0-4)")
	f.StringVar(&req.Items, "items", "", "Item selection, sent instead of --segment")
	return cmd
}

func newEnumsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "enums",
		Short: "Fetch the enum tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *comlink.Client) (any, error) {
				return c.GetEnums(ctx)
			})
		},
	}
}
