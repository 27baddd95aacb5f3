package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/newsfeed/config"
)

func newConfigCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
		Long: `Inspect the effective configuration.

Sources, highest priority first:
  1. NEWSFEED_* environment variables (NEWSFEED_NEWSAPI_API_KEY, ...)
  2. unprefixed environment variables and the .env file
  3. the config file
  4. defaults`,
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration after defaults, with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			data, err := encodeConfig(cfg.Redacted(), format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or toml")
	cmd.AddCommand(show)
	return cmd
}

// encodeConfig renders cfg in format. TOML goes through the YAML form so
// both outputs share the yaml tags and duration strings.
func encodeConfig(cfg config.Config, format string) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	switch format {
	case "yaml", "yml":
		return data, nil
	case "toml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("encoding config: %w", err)
		}
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or toml)", format)
	}
}
