package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samvad-hq/comlink-go/internal/config"
	"github.com/samvad-hq/comlink-go/pkg/comlink"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	url     string
	host    string
	port    int
	enums   bool
	output  string
	timeout time.Duration
}

// NewRootCmd builds the comlink command tree with flag defaults taken from cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	if cfg == nil {
		cfg = &config.Config{ComlinkURL: comlink.DefaultURL, RequestTimeout: 30 * time.Second}
	}
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "comlink",
		Short: "Query a SWGOH Comlink service",
		Long: `comlink sends requests to a running Comlink service and prints the
JSON it returns.

Examples:
  comlink player --allycode 123-456-789
  comlink guild --id G1 --recent-activity
  comlink leaderboard --type 6 --league 100 --division 25 --output yaml
  comlink --url http://comlink:3000 version`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unsupported output %q (expected json or yaml)", opts.output)
			}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&opts.url, "url", cfg.ComlinkURL, "Comlink base URL")
	flags.StringVar(&opts.host, "host", cfg.ComlinkHost, "Comlink host; when set, --url is ignored")
	flags.IntVar(&opts.port, "port", cfg.ComlinkPort, "Comlink port, used with --host (0 means 80)")
	flags.BoolVar(&opts.enums, "enums", cfg.ComlinkEnums, "Render enum values as names")
	flags.StringVarP(&opts.output, "output", "o", outputJSON, "Output format: json or yaml")
	flags.DurationVar(&opts.timeout, "timeout", cfg.RequestTimeout, "Request timeout (0 disables)")

	root.AddCommand(
		newMetadataCmd(opts),
		newVersionCmd(opts),
		newPlayerCmd(opts),
		newArenaCmd(opts),
		newGuildCmd(opts),
		newGuildsCmd(opts),
		newLeaderboardCmd(opts),
		newGuildLeaderboardCmd(opts),
		newEventsCmd(opts),
		newLocalizationCmd(opts),
		newDataCmd(opts),
		newEnumsCmd(opts),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// SetVersion sets the version info
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

func (o *rootOptions) newClient() (*comlink.Client, error) {
	return comlink.New(comlink.Options{
		URL:     o.url,
		Host:    o.host,
		Port:    o.port,
		Timeout: o.timeout,
	})
}

// call opens a client, runs fn and prints its result in the selected format.
func (o *rootOptions) call(cmd *cobra.Command, fn func(ctx context.Context, c *comlink.Client) (any, error)) error {
	client, err := o.newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := fn(cmd.Context(), client)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), o.output, result)
}
