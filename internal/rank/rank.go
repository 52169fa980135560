// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank re-orders a bulk-loaded food catalog by textual relevance
// to a query. It backs the UI typeahead, which loads the exported
// catalog once and re-ranks it in memory per keystroke instead of
// calling the backend. Everything here is pure and safe for concurrent
// use; callers debounce repeated invocations themselves.
package rank

import (
	"regexp"
	"sort"
	"strings"

	"github.com/voss/nutrikit/internal/textnorm"
	"github.com/voss/nutrikit/pkg/types"
)

// RejectScore marks an item as irrelevant; Rank drops it.
const RejectScore = 100

// Score tiers, lower is better. The fractional substring tier sits
// between word-boundary containment and the all-words tier.
const (
	scoreExact        = 0
	scorePrefix       = 1
	scoreContained    = 2
	scoreLooseSubstr  = 2.5
	scoreAllWords     = 3
	lengthPenaltyStep = 0.01
)

// Score rates how well item matches the query. normalizedQuery must be
// the textnorm.NormalizeFull form of the raw query and queryWords its
// fields; Rank prepares both once per call. Lower is better; RejectScore
// means no match at all.
//
// A length penalty of lengthPenaltyStep per extra rune breaks ties
// within a tier in favor of names closer in length to the query.
func Score(item types.Food, normalizedQuery string, queryWords []string) float64 {
	name := textnorm.NormalizeFull(item.Name)
	if name == "" || normalizedQuery == "" {
		return RejectScore
	}

	penalty := lengthPenalty(name, normalizedQuery)

	if name == normalizedQuery {
		return scoreExact + penalty
	}

	if boundaryPrefix(item.Name, name, normalizedQuery) {
		return scorePrefix + penalty
	}

	if strings.Contains(name, normalizedQuery) {
		if boundaryPattern(normalizedQuery).MatchString(name) {
			return scoreContained + penalty
		}
		return scoreLooseSubstr + penalty
	}

	if len(queryWords) >= 2 && containsAllWords(name, queryWords) {
		return scoreAllWords + penalty
	}

	return RejectScore
}

// Rank filters and sorts items by relevance to query. Rejected items are
// dropped; survivors sort by score ascending, then meal-plan usage
// descending, then name length ascending, then name. The order is a
// deterministic total order: equal inputs always rank identically.
func Rank(items []types.Food, query string) []types.Food {
	normalizedQuery := textnorm.NormalizeFull(query)
	queryWords := strings.Fields(normalizedQuery)

	type scored struct {
		food  types.Food
		score float64
	}
	ranked := make([]scored, 0, len(items))
	for _, item := range items {
		s := Score(item, normalizedQuery, queryWords)
		if s >= RejectScore {
			continue
		}
		ranked = append(ranked, scored{food: item, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score < b.score
		}
		if a.food.UsageMealPlans != b.food.UsageMealPlans {
			return a.food.UsageMealPlans > b.food.UsageMealPlans
		}
		if len(a.food.Name) != len(b.food.Name) {
			return len(a.food.Name) < len(b.food.Name)
		}
		return a.food.Name < b.food.Name
	})

	out := make([]types.Food, len(ranked))
	for i, r := range ranked {
		out[i] = r.food
	}
	return out
}

// boundaryPrefix reports whether the name starts with the query followed
// immediately by a space or an opening parenthesis. The folded name has
// its punctuation stripped, so the parenthesis case is checked against a
// case- and accent-folded form that keeps punctuation.
func boundaryPrefix(rawName, foldedName, query string) bool {
	if strings.HasPrefix(foldedName, query+" ") {
		return true
	}
	loose := strings.ToLower(textnorm.Normalize(rawName))
	return strings.HasPrefix(loose, query+"(") || strings.HasPrefix(loose, query+" (")
}

// boundaryPattern matches the query as a whole word: preceded by start
// or whitespace and followed by whitespace or end.
func boundaryPattern(query string) *regexp.Regexp {
	return regexp.MustCompile(`(\s|^)` + regexp.QuoteMeta(query) + `(\s|$)`)
}

func containsAllWords(name string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(name, w) {
			return false
		}
	}
	return true
}

func lengthPenalty(name, query string) float64 {
	d := len(name) - len(query)
	if d < 0 {
		d = 0
	}
	return float64(d) * lengthPenaltyStep
}
