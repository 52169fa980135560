// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm provides the pure string normalization used across
// the food lookup pipeline, plus the shared match-tier comparison
// consumed by both the corpus match engine and the client-side ranker.
// All functions are stateless and safe for concurrent use.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining diacritical marks, and
// recomposes to NFC.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// punctuation is the fixed set stripped by NormalizeFull. Parentheses
// and commas dominate corpus descriptions ("Arroz, integral, cozido").
var punctuation = regexp.MustCompile(`[.,;:!?'"()\[\]{}/\\%*-]`)

// Normalize strips diacritical marks only; case and punctuation are
// untouched. Idempotent; empty input yields the empty string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeFull strips diacritics and punctuation, collapses runs of
// whitespace to one space, trims, and lower-cases. Used wherever exact
// or boundary comparisons must be accent- and punctuation-insensitive.
// Idempotent.
func NormalizeFull(s string) string {
	if s == "" {
		return ""
	}
	out := Normalize(s)
	out = punctuation.ReplaceAllString(out, " ")
	out = strings.Join(strings.Fields(out), " ")
	return strings.ToLower(out)
}

// Match tiers, ordered strongest first. Shared by the corpus engine's
// deterministic re-sort and the client-side relevance scorer so the two
// paths cannot drift.
const (
	TierExact    = 0
	TierPrefix   = 1
	TierContains = 2
	TierOther    = 3
)

// Tier classifies how name matches query after NormalizeFull folding.
func Tier(name, query string) int {
	n := NormalizeFull(name)
	q := NormalizeFull(query)
	switch {
	case n == q:
		return TierExact
	case strings.HasPrefix(n, q):
		return TierPrefix
	case strings.Contains(n, q):
		return TierContains
	default:
		return TierOther
	}
}
