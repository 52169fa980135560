// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voss/nutrikit/internal/catalog"
	"github.com/voss/nutrikit/internal/rank"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Export the cached catalog and rank it offline",
	Long: `Catalog works with the bulk export the UI typeahead consumes. Export
writes the full cache to a YAML or JSON file; rank re-orders an exported
catalog by relevance to a query without touching the network, the same
way the typeahead does per keystroke.`,
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cached foods to YAML or JSON",
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = pipelineConfig().Search.ExportDir
	}

	s, _, err := openPipeline()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	var path string
	switch format {
	case "yaml", "":
		path, err = catalog.ExportYAML(ctx, s, dir)
	case "json":
		path, err = catalog.ExportJSON(ctx, s, dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

// --- rank subcommand ---

var catalogRankCmd = &cobra.Command{
	Use:   "rank <query>",
	Short: "Rank an exported catalog by relevance to a query",
	Long: `Rank loads an exported catalog file and re-orders it by textual
relevance: exact name matches first, then word-boundary prefixes,
contained words, substrings, and scattered multi-word matches, with
meal-plan usage breaking ties. Foods that do not match are dropped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogRank,
}

func runCatalogRank(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("catalog")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	query := strings.Join(args, " ")

	foods, err := catalog.LoadCatalog(path)
	if err != nil {
		return err
	}

	ranked := rank.Rank(foods, query)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return printFoods(ranked, jsonOutput)
}

func init() {
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("dir", "", "output directory (default from config)")

	catalogRankCmd.Flags().String("catalog", "catalog/catalog.yaml", "exported catalog file to rank")
	catalogRankCmd.Flags().Int("limit", 20, "maximum results to show (0 = all)")
	catalogRankCmd.Flags().Bool("json", false, "output results as JSON")

	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogRankCmd)

	rootCmd.AddCommand(catalogCmd)
}
