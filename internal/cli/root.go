package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/newsfeed/config"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	envFile    string
	verbose    bool
}

// NewRootCommand builds the newsfeed command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "newsfeed",
		Short: "Debounced news search over newsapi.org",
		Long: `newsfeed turns a stream of search text into news result lists.

Text is debounced, lowercased and sent to newsapi.org as a keyword search.
Only the newest request's results are published; a failed fetch publishes
an empty list. Results are served over HTTP and streamed with SSE.

Configuration is read from config.yml, then .env, then NEWSFEED_*
environment variables (highest priority).`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVarP(&o.configFile, "config", "c", "", "config file (default: ./config.yml or ./config/config.yml)")
	cmd.PersistentFlags().StringVar(&o.envFile, "env-file", "", "env file loaded before NEWSFEED_* variables are read (default: ./.env)")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newServeCommand(o),
		newSearchCommand(o),
		newWatchCommand(o),
		newConfigCommand(o),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *rootOptions) load() (*config.Config, error) {
	var opts []config.LoaderOption
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
