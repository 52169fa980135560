// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog coordinates the cache-aside food search: local cache
// first, remote corpus on a miss, lazy population of the cache with new
// hits, and bulk catalog export for the client-side typeahead.
package catalog

import (
	"github.com/voss/nutrikit/internal/corpus"
	"github.com/voss/nutrikit/pkg/types"
)

// Corpus records report everything per 100 g.
const (
	remoteServingSize = 100
	remoteServingUnit = "g"
)

// fallbackName is used when a corpus record carries no usable
// description at all.
const fallbackName = "unknown food"

// macroAliases maps each first-class macro field to the corpus nutrient
// names that may carry it, in preference order. Corpus records vary by
// scraper version, so each field resolves through an ordered fallback
// rather than a single key.
var macroAliases = map[string][]string{
	"calories":      {"energy_kcal", "energy", "calories"},
	"protein":       {"protein", "proteins"},
	"carbohydrates": {"carbohydrate", "carbohydrates", "carbs"},
	"fat":           {"lipids", "fat", "total_fat"},
	"fiber":         {"fiber", "dietary_fiber", "fibre"},
	"sugar":         {"sugar", "sugars", "total_sugar"},
	"sodium":        {"sodium"},
}

// FoodFromRemote maps a corpus record to the local Food shape. Macro
// nutrients resolve by name with trace and missing values parsed to 0;
// every nutrient not consumed as a macro lands in AdditionalNutrients.
func FoodFromRemote(rec types.RemoteFoodRecord) types.Food {
	name := firstNonEmpty(rec.Description, rec.SimplifiedDescription, fallbackName)

	consumed := make(map[string]bool)
	macro := func(field string) float64 {
		for _, alias := range macroAliases[field] {
			if n, ok := rec.Nutrients[alias]; ok {
				consumed[alias] = true
				return n.Float()
			}
		}
		return 0
	}

	f := types.Food{
		Name:          name,
		ServingSize:   remoteServingSize,
		ServingUnit:   remoteServingUnit,
		Calories:      macro("calories"),
		Protein:       macro("protein"),
		Carbohydrates: macro("carbohydrates"),
		Fat:           macro("fat"),
		Fiber:         macro("fiber"),
		Sugar:         macro("sugar"),
		Sodium:        macro("sodium"),
		Source:        corpus.SourceName,
		SourceID:      rec.Code,
	}
	if rec.Code != "" {
		code := rec.Code
		f.ExternalID = &code
	}
	if rec.Class != "" {
		f.Categories = []string{rec.Class}
	}

	for nutrientName, n := range rec.Nutrients {
		if consumed[nutrientName] {
			continue
		}
		if f.AdditionalNutrients == nil {
			f.AdditionalNutrients = make(map[string]float64)
		}
		f.AdditionalNutrients[nutrientName] = n.Float()
	}

	return f
}

// FoodsFromRemote maps a batch of corpus records.
func FoodsFromRemote(recs []types.RemoteFoodRecord) []types.Food {
	foods := make([]types.Food, len(recs))
	for i, rec := range recs {
		foods[i] = FoodFromRemote(rec)
	}
	return foods
}

// firstNonEmpty returns the first non-empty candidate.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
