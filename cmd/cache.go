package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/overunder/internal/cache"
	"github.com/sells-group/overunder/internal/provider"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the provider response cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("cache"); err != nil {
			return err
		}

		store, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			return eris.Wrap(err, "open cache")
		}
		defer store.Close() //nolint:errcheck

		n, err := store.DeleteExpired(ctx)
		if err != nil {
			return eris.Wrap(err, "prune cache")
		}

		zap.L().Info("cache pruned", zap.String("driver", cfg.Cache.Driver), zap.Int("deleted", n))
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired entries\n", n)
		return nil
	},
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <team-id>...",
	Short: "Drop the cached match history of one or more teams",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("cache"); err != nil {
			return err
		}

		store, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			return eris.Wrap(err, "open cache")
		}
		defer store.Close() //nolint:errcheck

		// Only the cache is touched, so no upstream source is needed.
		cached := provider.NewCached(nil, store, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err := cached.Invalidate(ctx, args...); err != nil {
			return eris.Wrap(err, "invalidate cache")
		}

		zap.L().Info("cache invalidated", zap.Strings("team_ids", args))
		fmt.Fprintf(cmd.OutOrStdout(), "invalidated history for %d team(s)\n", len(args))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd, cacheInvalidateCmd)
	rootCmd.AddCommand(cacheCmd)
}
