// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voss/nutrikit/internal/catalog"
	"github.com/voss/nutrikit/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search foods in the cache and the nutrition corpus",
	Long: `Search finds foods by free text, natural-key code, corpus category, or
nutrient range. The local cache answers first; the corpus fills out the
page on a miss and new hits are cached for next time.

Text search matches names and categories. Use --code for an exact key
lookup, --category for a corpus class listing, or --nutrient with --min
and --max for a range query (e.g. --nutrient protein --min 20 --max 40).`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	code, _ := cmd.Flags().GetString("code")
	category, _ := cmd.Flags().GetString("category")
	nutrient, _ := cmd.Flags().GetString("nutrient")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize == 0 {
		pageSize = viper.GetInt("search.page_size")
	}

	s, orch, err := openPipeline()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	switch {
	case code != "":
		food, err := orch.FindByExternalKey(ctx, code)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("no food with code %q", code)
			}
			return err
		}
		return printFoods([]types.Food{*food}, jsonOutput)

	case category != "":
		foods, err := orch.FindByCategory(ctx, category, pageSize, page*pageSize)
		if err != nil {
			return err
		}
		return printFoods(foods, jsonOutput)

	case nutrient != "":
		min, _ := cmd.Flags().GetFloat64("min")
		max, _ := cmd.Flags().GetFloat64("max")
		foods, err := orch.FindByNutrientRange(ctx, nutrient, min, max, pageSize, page*pageSize)
		if err != nil {
			return err
		}
		return printFoods(foods, jsonOutput)

	default:
		query := strings.Join(args, " ")
		if query == "" {
			return fmt.Errorf("query required: provide search text, --code, --category, or --nutrient")
		}
		foods, err := orch.Search(ctx, query, page, pageSize)
		if err != nil {
			return err
		}
		return printFoods(foods, jsonOutput)
	}
}

func init() {
	searchCmd.Flags().String("code", "", "look up one food by its corpus code (e.g. BRC0001C)")
	searchCmd.Flags().String("category", "", "list foods in a corpus category")
	searchCmd.Flags().String("nutrient", "", "filter by nutrient range (requires --min/--max)")
	searchCmd.Flags().Float64("min", 0, "nutrient range lower bound per 100g")
	searchCmd.Flags().Float64("max", 0, "nutrient range upper bound per 100g")
	searchCmd.Flags().Int("page", 0, "zero-based result page")
	searchCmd.Flags().Int("page-size", 0, "results per page (default from config, max 50)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
