// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voss/nutrikit/internal/catalog"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local food cache (warm, stats, favorite, use)",
	Long: `Cache manages the local SQLite food database. Use warm to pre-populate
it from a query file before going offline, stats to inspect it, and
favorite/use to maintain the usage signals that drive result ordering.`,
}

// --- warm subcommand ---

var cacheWarmCmd = &cobra.Command{
	Use:   "warm <query-file>",
	Short: "Pre-populate the cache from a YAML query file",
	Long: `Warm runs every query in a YAML file through the normal search path so
corpus hits land in the cache. Intended for fresh installs in practices
with unreliable connectivity.

The file lists queries and an optional page size:

    queries:
      - arroz
      - feijão
    page_size: 20`,
	Args: cobra.ExactArgs(1),
	RunE: runCacheWarm,
}

func runCacheWarm(cmd *cobra.Command, args []string) error {
	wf, err := catalog.ReadWarmFile(args[0])
	if err != nil {
		return err
	}

	s, orch, err := openPipeline()
	if err != nil {
		return err
	}
	defer s.Close()

	summary := catalog.Warm(context.Background(), orch, wf, os.Stdout)
	if summary.Failed > 0 {
		return fmt.Errorf("%d query(ies) failed", summary.Failed)
	}
	return nil
}

// --- stats subcommand ---

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		s, _, err := openPipeline()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("database: %s\nfoods:    %d\n", cfg.Cache.DBPath, n)
		return nil
	},
}

// --- favorite subcommand ---

var cacheFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Mark or unmark a cached food as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		unset, _ := cmd.Flags().GetBool("unset")

		s, _, err := openPipeline()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SetFavorite(context.Background(), id, !unset); err != nil {
			return err
		}
		if unset {
			fmt.Printf("food %d unmarked\n", id)
		} else {
			fmt.Printf("food %d marked as favorite\n", id)
		}
		return nil
	},
}

// --- use subcommand ---

var cacheUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Record a usage of a cached food",
	Long: `Use bumps one of a food's usage counters. The meal-plan counter drives
search result ordering; searches and favorites feed the typeahead
ranking.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		counter, _ := cmd.Flags().GetString("counter")

		s, _, err := openPipeline()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.IncrementUsage(context.Background(), id, counter); err != nil {
			return err
		}
		fmt.Printf("food %d: %s count incremented\n", id, counter)
		return nil
	},
}

func parseID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid food id %q", s)
	}
	return id, nil
}

func init() {
	cacheFavoriteCmd.Flags().Bool("unset", false, "remove the favorite mark instead")
	cacheUseCmd.Flags().String("counter", "meal_plans", "counter to bump: meal_plans, favorites, or searches")

	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheFavoriteCmd)
	cacheCmd.AddCommand(cacheUseCmd)

	rootCmd.AddCommand(cacheCmd)
}
