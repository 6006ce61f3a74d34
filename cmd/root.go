package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/overunder/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "overunder",
	Short: "Basketball total-points over/under predictor",
	Long: `Pulls both teams' match histories and opening total-points lines from BetsAPI,
and estimates the probability that a match finishes under or over its opening line.

Commands:
  serve              run the HTTP API (POST /api/match/predict_score, GET /health)
  predict            predict one match and print the result as JSON
  cache prune        delete expired provider cache entries
  cache invalidate   drop the cached match history of one or more teams
  config             print the effective configuration as YAML with secrets redacted`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
