// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/voss/nutrikit/internal/catalog"
	"github.com/voss/nutrikit/internal/corpus"
	"github.com/voss/nutrikit/internal/store"
	"github.com/voss/nutrikit/pkg/types"
)

// openPipeline wires the cache, corpus client, match engine, and
// orchestrator from the effective configuration. The caller closes the
// returned store.
func openPipeline() (*store.Store, *catalog.Orchestrator, error) {
	cfg := pipelineConfig()

	s, err := store.Open(cfg.Cache.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening food cache: %w", err)
	}

	client := corpus.NewClient(cfg.Corpus)
	engine := corpus.NewEngine(client, slog.Default())
	orch := catalog.NewOrchestrator(s, engine, client, slog.Default())
	return s, orch, nil
}

// printFoods writes foods as an aligned table or JSON.
func printFoods(foods []types.Food, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(foods)
	}

	if len(foods) == 0 {
		fmt.Println("No foods found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-44s  %8s  %7s  %7s  %7s\n",
		"#", "Code", "Name", "kcal", "Prot", "Carb", "Fat")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, f := range foods {
		code := ""
		if f.ExternalID != nil {
			code = *f.ExternalID
		}
		name := f.Name
		if len(name) > 44 {
			name = name[:41] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-44s  %8.1f  %7.1f  %7.1f  %7.1f\n",
			i+1, code, name, f.Calories, f.Protein, f.Carbohydrates, f.Fat)
	}

	fmt.Fprintf(os.Stdout, "\n%d foods (per %g%s serving)\n",
		len(foods), foods[0].ServingSize, foods[0].ServingUnit)
	return nil
}
