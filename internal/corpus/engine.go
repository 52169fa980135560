// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/voss/nutrikit/internal/textnorm"
	"github.com/voss/nutrikit/pkg/types"
)

// perTermFactor scales the per-term fetch size in the prefix, substring,
// and tag tiers so a tier can fill the page even when some candidates
// are rejected as duplicates.
const perTermFactor = 3

// MatchResult holds one page of corpus matches.
type MatchResult struct {
	Items []types.RemoteFoodRecord

	// Total is the size of the tier-gathered superset. It approximates
	// the corpus-wide match count; an exact count would need a separate
	// count query per tier and no caller requires it.
	Total int
}

// Engine resolves a free-text query against the corpus using four
// prioritized tiers: exact description match, description prefix,
// description substring, and tag match. Candidates are deduplicated by
// natural key across tiers and re-sorted deterministically before
// paging.
type Engine struct {
	corpus Corpus
	log    *slog.Logger
}

// NewEngine returns an Engine over the given corpus. A nil logger uses
// slog.Default().
func NewEngine(c Corpus, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{corpus: c, log: logger}
}

// Search gathers candidates tier by tier, re-sorts them, and returns the
// page selected by offset and limit. I/O failures are logged and yield
// an empty result; Search never returns an error to its caller.
func (e *Engine) Search(ctx context.Context, query string, limit, offset int) MatchResult {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return MatchResult{}
	}

	collected, err := e.gather(ctx, query, limit)
	if err != nil {
		e.log.Warn("corpus search failed, returning empty result",
			"query", query, "error", err)
		return MatchResult{}
	}

	// The tier-by-tier accumulation can order imperfectly (a stripped-term
	// prefix hit may precede a better raw-term hit); re-sort the superset
	// before paging.
	sort.SliceStable(collected, func(i, j int) bool {
		ti := textnorm.Tier(collected[i].Description, query)
		tj := textnorm.Tier(collected[j].Description, query)
		if ti != tj {
			return ti < tj
		}
		return textnorm.NormalizeFull(collected[i].Description) <
			textnorm.NormalizeFull(collected[j].Description)
	})

	total := len(collected)
	if offset >= total {
		return MatchResult{Total: total}
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return MatchResult{Items: collected[offset:end], Total: total}
}

// gather runs the four tiers in strict order, excluding natural keys
// already collected, and stops once the running total reaches limit.
func (e *Engine) gather(ctx context.Context, query string, limit int) ([]types.RemoteFoodRecord, error) {
	terms := searchTerms(query)

	var collected []types.RemoteFoodRecord
	seen := make(map[string]bool)

	add := func(r types.RemoteFoodRecord) bool {
		if r.Code == "" || seen[r.Code] {
			return false
		}
		seen[r.Code] = true
		collected = append(collected, r)
		return true
	}
	collectedCodes := func() []string {
		codes := make([]string, 0, len(seen))
		for _, r := range collected {
			codes = append(codes, r.Code)
		}
		return codes
	}

	// Exact tier: at most one record survives. Among candidates for the
	// raw and stripped terms, prefer the one whose folded description
	// equals the folded query, else the first found.
	var exactCands []types.RemoteFoodRecord
	for _, term := range terms {
		recs, err := e.corpus.FindByDescriptionExact(ctx, term, nil, limit)
		if err != nil {
			return nil, err
		}
		exactCands = append(exactCands, recs...)
	}
	if best := pickExact(exactCands, query); best != nil {
		add(*best)
	}

	fetches := []func(context.Context, string, []string, int) ([]types.RemoteFoodRecord, error){
		e.corpus.FindByDescriptionPrefix,
		e.corpus.FindByDescriptionSubstring,
		e.corpus.FindByTag,
	}
	for _, fetch := range fetches {
		if len(collected) >= limit {
			break
		}
		for _, term := range terms {
			if len(collected) >= limit {
				break
			}
			recs, err := fetch(ctx, term, collectedCodes(), limit*perTermFactor)
			if err != nil {
				return nil, err
			}
			for _, r := range recs {
				add(r)
				if len(collected) >= limit {
					break
				}
			}
		}
	}

	return collected, nil
}

// pickExact chooses the surviving exact-tier candidate.
func pickExact(cands []types.RemoteFoodRecord, query string) *types.RemoteFoodRecord {
	if len(cands) == 0 {
		return nil
	}
	want := textnorm.NormalizeFull(query)
	for i := range cands {
		if textnorm.NormalizeFull(cands[i].Description) == want {
			return &cands[i]
		}
	}
	return &cands[0]
}

// searchTerms returns the raw query plus its diacritic-stripped form
// when the two differ.
func searchTerms(query string) []string {
	terms := []string{query}
	if stripped := textnorm.Normalize(query); stripped != query {
		terms = append(terms, stripped)
	}
	return terms
}
