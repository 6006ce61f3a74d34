package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/overunder/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML with secrets redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := renderConfig(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

const redacted = "<redacted>"

// renderConfig marshals c with credentials masked.
func renderConfig(c *config.Config) ([]byte, error) {
	masked := *c
	if masked.BetsAPI.Token != "" {
		masked.BetsAPI.Token = redacted
	}
	if masked.Server.AuthToken != "" {
		masked.Server.AuthToken = redacted
	}
	if masked.Cache.DatabaseURL != "" {
		masked.Cache.DatabaseURL = redacted
	}
	if masked.Cache.RedisURL != "" {
		masked.Cache.RedisURL = redacted
	}

	out, err := yaml.Marshal(masked)
	if err != nil {
		return nil, eris.Wrap(err, "marshal config")
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
