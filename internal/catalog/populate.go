// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"log/slog"

	"github.com/voss/nutrikit/pkg/types"
)

// FoodStore is the local cache surface the catalog consumes. Implemented
// by the sqlite store; tests substitute in-memory fakes.
type FoodStore interface {
	FindByNameOrCategory(ctx context.Context, query string, limit, offset int) ([]types.Food, error)
	FindExistingByExternalIDs(ctx context.Context, ids []string) ([]types.Food, error)
	UpsertMany(ctx context.Context, foods []types.Food) ([]types.Food, error)
	FindByExternalID(ctx context.Context, externalID string) (*types.Food, error)
	FindByNutrientRange(ctx context.Context, nutrient string, min, max float64, limit, offset int) ([]types.Food, error)
}

// Populator writes adapted remote hits into the local cache.
type Populator struct {
	store FoodStore
	log   *slog.Logger
}

// NewPopulator returns a Populator over the given store. A nil logger
// uses slog.Default().
func NewPopulator(store FoodStore, logger *slog.Logger) *Populator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Populator{store: store, log: logger}
}

// Populate caches the candidates that are not yet present, keyed by
// external ID, and returns the newly inserted rows. The insert batch
// ignores natural-key conflicts, so concurrent identical searches cannot
// create duplicate rows. Pre-existing entries are left untouched.
//
// Cache failures are logged and absorbed: the caller always keeps its
// remote results even when caching them failed.
func (p *Populator) Populate(ctx context.Context, candidates []types.Food) []types.Food {
	if len(candidates) == 0 {
		return nil
	}

	inserted, err := p.store.UpsertMany(ctx, candidates)
	if err != nil {
		p.log.Warn("caching remote results failed",
			"candidates", len(candidates), "error", err)
		return nil
	}

	if len(inserted) > 0 {
		p.log.Debug("cached new foods from corpus",
			"candidates", len(candidates), "inserted", len(inserted))
	}
	return inserted
}
