// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voss/nutrikit/internal/textnorm"
	"github.com/voss/nutrikit/pkg/types"
)

func food(name string) types.Food {
	return types.Food{Name: name}
}

func scoreFor(t *testing.T, name, query string) float64 {
	t.Helper()
	nq := textnorm.NormalizeFull(query)
	return Score(food(name), nq, strings.Fields(nq))
}

func TestScoreTiers(t *testing.T) {
	tests := []struct {
		label string
		name  string
		query string
		tier  float64
	}{
		{"exact", "Arroz", "arroz", 0},
		{"exact ignores accents and case", "Feijão", "FEIJAO", 0},
		{"prefix with space boundary", "Arroz integral cozido", "arroz", 1},
		{"prefix with parenthesis boundary", "Arroz (integral)", "arroz", 1},
		{"word contained mid-name", "Farinha de arroz torrada", "arroz", 2},
		{"substring inside a word", "Macarrão", "acarr", 2.5},
		{"all words scattered", "Arroz tipo 1, integral, cozido", "arroz cozido", 3},
		{"all words out of order", "Cozido de arroz com legumes", "arroz cozido", 3},
		{"no match", "Feijão carioca", "arroz", RejectScore},
		{"single missing word rejects multi-word query", "Arroz branco", "arroz cozido quente", RejectScore},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := scoreFor(t, tt.name, tt.query)
			if tt.tier == RejectScore {
				assert.Equal(t, float64(RejectScore), got)
				return
			}
			// Scores carry a small length penalty on top of the tier.
			assert.GreaterOrEqual(t, got, tt.tier)
			assert.Less(t, got, tt.tier+1)
		})
	}
}

func TestScoreLengthPenaltyPrefersShorterName(t *testing.T) {
	short := scoreFor(t, "Arroz branco", "arroz")
	long := scoreFor(t, "Arroz branco polido tipo 1", "arroz")
	assert.Less(t, short, long)
}

func TestScoreEmptyInputsReject(t *testing.T) {
	assert.Equal(t, float64(RejectScore), scoreFor(t, "", "arroz"))
	assert.Equal(t, float64(RejectScore), scoreFor(t, "Arroz", ""))
	assert.Equal(t, float64(RejectScore), scoreFor(t, "Arroz", " ,. "))
}

func TestRankOrdersByTier(t *testing.T) {
	items := []types.Food{
		food("Farinha de arroz"),
		food("Feijão carioca"),
		food("Arroz integral cozido"),
		food("Arroz"),
	}

	got := Rank(items, "arroz")

	require.Len(t, got, 3, "non-matching item is dropped")
	assert.Equal(t, "Arroz", got[0].Name)
	assert.Equal(t, "Arroz integral cozido", got[1].Name)
	assert.Equal(t, "Farinha de arroz", got[2].Name)
}

func TestRankBreaksTiesByUsageThenLength(t *testing.T) {
	// Same tier and same name length, so only usage separates them.
	rare := food("Arroz integral")
	popular := food("Arroz vermelho")
	popular.UsageMealPlans = 12

	got := Rank([]types.Food{rare, popular}, "arroz")

	require.Len(t, got, 2)
	assert.Equal(t, "Arroz vermelho", got[0].Name, "heavier meal-plan usage wins the tie")

	// With equal usage the shorter name comes first.
	got = Rank([]types.Food{food("Arroz vermelho selvagem"), food("Arroz negro")}, "arroz")
	require.Len(t, got, 2)
	assert.Equal(t, "Arroz negro", got[0].Name)
}

func TestRankIsDeterministic(t *testing.T) {
	items := []types.Food{
		food("Arroz branco"), food("Arroz preto"), food("Arroz doce"),
	}
	reversed := []types.Food{items[2], items[1], items[0]}

	first := Rank(items, "arroz")
	second := Rank(reversed, "arroz")

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}

func TestRankEmptyQueryDropsEverything(t *testing.T) {
	assert.Empty(t, Rank([]types.Food{food("Arroz")}, ""))
}
