// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the nutrikit food
// lookup pipeline: the locally-cached Food entity, the remote corpus
// document, and per-stage configuration.
package types

import "time"

// Usage counter names accepted by LocalFoodStore.IncrementUsage.
const (
	UsageMealPlans = "meal_plans"
	UsageFavorites = "favorites"
	UsageSearches  = "searches"
)

// Food is a locally-cached record of one food item with normalized
// macro fields, used by meal-planning features. Rows are created either
// manually or lazily by the cache populator on the first remote hit for
// a corpus item.
type Food struct {
	// ID is the opaque local key (sqlite rowid, zero until inserted).
	ID int64 `json:"id" yaml:"id"`

	// ExternalID links this row to a remote corpus record by its natural
	// code. Nil for manually created foods. At most one row exists per
	// non-nil value (unique index).
	ExternalID *string `json:"external_id,omitempty" yaml:"external_id,omitempty"`

	// Name is the display name of the food.
	Name string `json:"name" yaml:"name"`

	// ServingSize and ServingUnit describe the reference portion the
	// macro fields are measured against (corpus convention: 100 g).
	ServingSize float64 `json:"serving_size" yaml:"serving_size"`
	ServingUnit string  `json:"serving_unit" yaml:"serving_unit"`

	// Macro fields, per serving.
	Calories      float64 `json:"calories" yaml:"calories"`
	Protein       float64 `json:"protein" yaml:"protein"`
	Carbohydrates float64 `json:"carbohydrates" yaml:"carbohydrates"`
	Fat           float64 `json:"fat" yaml:"fat"`
	Fiber         float64 `json:"fiber" yaml:"fiber"`
	Sugar         float64 `json:"sugar" yaml:"sugar"`
	Sodium        float64 `json:"sodium" yaml:"sodium"`

	// Categories is an ordered list of category labels. For cached corpus
	// records it holds the corpus class as its single element.
	Categories []string `json:"categories" yaml:"categories"`

	// Source names where the record came from (e.g. "tbca", "manual").
	Source string `json:"source" yaml:"source"`

	// SourceID is the identifier within Source (the corpus code for
	// remote-backed rows).
	SourceID string `json:"source_id,omitempty" yaml:"source_id,omitempty"`

	// Usage counters, bumped by the surrounding application.
	UsageMealPlans int `json:"usage_meal_plans" yaml:"usage_meal_plans"`
	UsageFavorites int `json:"usage_favorites" yaml:"usage_favorites"`
	UsageSearches  int `json:"usage_searches" yaml:"usage_searches"`

	// IsFavorite marks the food in the practitioner's favorites list.
	IsFavorite bool `json:"is_favorite" yaml:"is_favorite"`

	// AdditionalNutrients holds nutrient values that have no first-class
	// column, keyed by nutrient name.
	AdditionalNutrients map[string]float64 `json:"additional_nutrients,omitempty" yaml:"additional_nutrients,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
