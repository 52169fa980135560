// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voss/nutrikit/internal/corpus"
	"github.com/voss/nutrikit/internal/store"
	"github.com/voss/nutrikit/pkg/types"
)

// Page size bounds for Search.
const (
	MinPageSize = 1
	MaxPageSize = 50
)

// ErrNotFound reports that a key lookup matched neither the cache nor
// the corpus.
var ErrNotFound = errors.New("catalog: food not found")

// MatchEngine is the corpus search surface the orchestrator consumes.
type MatchEngine interface {
	Search(ctx context.Context, query string, limit, offset int) corpus.MatchResult
}

// Orchestrator implements the cache-aside food search: the local cache
// is always consulted first and lazily populated from the corpus on a
// miss. Remote and cache failures degrade result completeness but never
// propagate to the caller.
type Orchestrator struct {
	store  FoodStore
	engine MatchEngine
	corpus corpus.Corpus
	pop    *Populator
	log    *slog.Logger
}

// NewOrchestrator wires the orchestrator. A nil logger uses slog.Default().
func NewOrchestrator(store FoodStore, engine MatchEngine, c corpus.Corpus, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:  store,
		engine: engine,
		corpus: c,
		pop:    NewPopulator(store, logger),
		log:    logger,
	}
}

// Search returns one page of foods for a free-text query. The local
// cache is tried first; the corpus is consulted only when the cache
// cannot fill the page on its own. New remote hits are cached before the
// merged page is returned.
//
// Page is zero-based; pageSize must be within [MinPageSize, MaxPageSize].
// Only argument violations produce an error: store and corpus failures
// are logged and degrade to whatever local results were gathered,
// possibly none.
func (o *Orchestrator) Search(ctx context.Context, query string, page, pageSize int) ([]types.Food, error) {
	if page < 0 {
		return nil, fmt.Errorf("page must be >= 0, got %d", page)
	}
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return nil, fmt.Errorf("page size must be in [%d, %d], got %d", MinPageSize, MaxPageSize, pageSize)
	}

	offset := page * pageSize

	local, err := o.store.FindByNameOrCategory(ctx, query, pageSize, offset)
	if err != nil {
		o.log.Warn("local food lookup failed", "query", query, "error", err)
		local = nil
	}
	if len(local) >= pageSize {
		return local[:pageSize], nil
	}

	res := o.engine.Search(ctx, query, pageSize-len(local), offset)
	if len(res.Items) == 0 {
		return local, nil
	}

	adapted := FoodsFromRemote(res.Items)
	o.pop.Populate(ctx, adapted)

	merged := append(local, adapted...)
	if len(merged) > pageSize {
		merged = merged[:pageSize]
	}
	return merged, nil
}

// FindByExternalKey looks up one food by its natural key: the cache
// first, then the corpus. A corpus hit is adapted and cached before it
// is returned (populates cache: yes). Returns ErrNotFound when neither
// store knows the code.
func (o *Orchestrator) FindByExternalKey(ctx context.Context, code string) (*types.Food, error) {
	cached, err := o.store.FindByExternalID(ctx, code)
	switch {
	case err == nil:
		return cached, nil
	case !isNotFound(err):
		o.log.Warn("local key lookup failed, trying corpus", "code", code, "error", err)
	}

	rec, err := o.corpus.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, corpus.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("looking up %s: %w", code, err)
	}

	food := FoodFromRemote(*rec)
	if inserted := o.pop.Populate(ctx, []types.Food{food}); len(inserted) == 1 {
		return &inserted[0], nil
	}
	return &food, nil
}

// FindByCategory returns one page of foods in a category: cached rows
// first, corpus rows to fill the remainder (populates cache: no).
// Failures degrade to the local results.
func (o *Orchestrator) FindByCategory(ctx context.Context, class string, limit, offset int) ([]types.Food, error) {
	local, err := o.store.FindByNameOrCategory(ctx, class, limit, offset)
	if err != nil {
		o.log.Warn("local category lookup failed", "class", class, "error", err)
		local = nil
	}
	if len(local) >= limit {
		return local[:limit], nil
	}

	recs, err := o.corpus.FindByCategory(ctx, class, limit-len(local), offset)
	if err != nil {
		o.log.Warn("corpus category lookup failed", "class", class, "error", err)
		return local, nil
	}

	merged := append(local, FoodsFromRemote(recs)...)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// FindByNutrientRange returns one page of foods whose named nutrient
// falls in [min, max]: cached rows first for first-class macros, corpus
// rows to fill the remainder (populates cache: no). Failures degrade to
// the local results.
func (o *Orchestrator) FindByNutrientRange(ctx context.Context, nutrient string, min, max float64, limit, offset int) ([]types.Food, error) {
	local, err := o.store.FindByNutrientRange(ctx, nutrient, min, max, limit, offset)
	if err != nil {
		o.log.Warn("local nutrient-range lookup failed", "nutrient", nutrient, "error", err)
		local = nil
	}
	if len(local) >= limit {
		return local[:limit], nil
	}

	recs, err := o.corpus.FindByNutrientRange(ctx, nutrient, min, max, limit-len(local), offset)
	if err != nil {
		o.log.Warn("corpus nutrient-range lookup failed", "nutrient", nutrient, "error", err)
		return local, nil
	}

	merged := append(local, FoodsFromRemote(recs)...)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
