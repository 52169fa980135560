// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voss/nutrikit/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func sampleFood(name, externalID string) types.Food {
	f := types.Food{
		Name:        name,
		ServingSize: 100,
		ServingUnit: "g",
		Calories:    123.9,
		Protein:     2.6,
		Categories:  []string{"Cereais e derivados"},
		Source:      "tbca",
	}
	if externalID != "" {
		f.ExternalID = strPtr(externalID)
		f.SourceID = externalID
	}
	return f
}

func TestInsertManyAndFindByNameOrCategory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	foods := []types.Food{
		sampleFood("Arroz, integral, cozido", "BRC0001C"),
		sampleFood("Arroz, branco, cozido", "BRC0002C"),
		sampleFood("Feijão, carioca, cozido", "BRC0010C"),
	}
	require.NoError(t, s.InsertMany(ctx, foods))

	got, err := s.FindByNameOrCategory(ctx, "arroz", 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Category membership also matches.
	got, err = s.FindByNameOrCategory(ctx, "Cereais e derivados", 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.FindByNameOrCategory(ctx, "nothing", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindByNameOrCategoryOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := sampleFood("Rice, white", "R001")
	a.UsageMealPlans = 1
	b := sampleFood("Rice, brown", "R002")
	b.UsageMealPlans = 5
	c := sampleFood("Rice, black", "R003")
	c.UsageMealPlans = 5
	require.NoError(t, s.InsertMany(ctx, []types.Food{a, b, c}))

	got, err := s.FindByNameOrCategory(ctx, "rice", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Usage descending, then name ascending.
	assert.Equal(t, "Rice, black", got[0].Name)
	assert.Equal(t, "Rice, brown", got[1].Name)
	assert.Equal(t, "Rice, white", got[2].Name)
}

func TestFindByNameOrCategoryPaging(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMany(ctx, []types.Food{
		sampleFood("Rice a", "R001"),
		sampleFood("Rice b", "R002"),
		sampleFood("Rice c", "R003"),
	}))

	got, err := s.FindByNameOrCategory(ctx, "rice", 2, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.FindByNameOrCategory(ctx, "rice", 2, 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindExistingByExternalIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMany(ctx, []types.Food{
		sampleFood("Arroz", "BRC0001C"),
		sampleFood("Feijão", "BRC0010C"),
	}))

	got, err := s.FindExistingByExternalIDs(ctx, []string{"BRC0001C", "BRC9999C"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Arroz", got[0].Name)

	got, err = s.FindExistingByExternalIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertManySkipsExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := sampleFood("Arroz, integral, cozido", "X001")
	original.Calories = 123.9
	require.NoError(t, s.InsertMany(ctx, []types.Food{original}))

	// Second batch re-offers X001 with different fields plus one new row.
	conflicting := sampleFood("Arroz integral DIFFERENT", "X001")
	conflicting.Calories = 999
	fresh := sampleFood("Feijão, carioca", "X002")

	inserted, err := s.UpsertMany(ctx, []types.Food{conflicting, fresh})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "Feijão, carioca", inserted[0].Name)
	assert.NotZero(t, inserted[0].ID)

	// The pre-existing row is untouched.
	existing, err := s.FindByExternalID(ctx, "X001")
	require.NoError(t, err)
	assert.Equal(t, "Arroz, integral, cozido", existing.Name)
	assert.Equal(t, 123.9, existing.Calories)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpsertManyAllowsManualFoodsWithoutExternalID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := sampleFood("Homemade granola", "")
	a.Source = "manual"
	b := sampleFood("Homemade soup", "")
	b.Source = "manual"

	inserted, err := s.UpsertMany(ctx, []types.Food{a, b})
	require.NoError(t, err)
	// NULL external IDs never conflict with each other.
	assert.Len(t, inserted, 2)
}

func TestFindByIDRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f := sampleFood("Arroz, integral, cozido", "BRC0001C")
	f.AdditionalNutrients = map[string]float64{"zinc": 0.7, "magnesium": 59}
	inserted, err := s.UpsertMany(ctx, []types.Food{f})
	require.NoError(t, err)
	require.Len(t, inserted, 1)

	got, err := s.FindByID(ctx, inserted[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Arroz, integral, cozido", got.Name)
	require.NotNil(t, got.ExternalID)
	assert.Equal(t, "BRC0001C", *got.ExternalID)
	assert.Equal(t, []string{"Cereais e derivados"}, got.Categories)
	assert.Equal(t, map[string]float64{"zinc": 0.7, "magnesium": 59}, got.AdditionalNutrients)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.FindByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindByExternalID(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndRemove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inserted, err := s.UpsertMany(ctx, []types.Food{sampleFood("Arroz", "BRC0001C")})
	require.NoError(t, err)
	f := inserted[0]

	f.Name = "Arroz, polido"
	f.Calories = 130
	require.NoError(t, s.Update(ctx, f))

	got, err := s.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arroz, polido", got.Name)
	assert.Equal(t, 130.0, got.Calories)

	require.NoError(t, s.Remove(ctx, f.ID))
	_, err = s.FindByID(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Remove(ctx, f.ID), ErrNotFound)
}

func TestIncrementUsageAndSetFavorite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inserted, err := s.UpsertMany(ctx, []types.Food{sampleFood("Arroz", "BRC0001C")})
	require.NoError(t, err)
	id := inserted[0].ID

	require.NoError(t, s.IncrementUsage(ctx, id, types.UsageMealPlans))
	require.NoError(t, s.IncrementUsage(ctx, id, types.UsageMealPlans))
	require.NoError(t, s.IncrementUsage(ctx, id, types.UsageSearches))
	require.NoError(t, s.SetFavorite(ctx, id, true))

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsageMealPlans)
	assert.Equal(t, 1, got.UsageSearches)
	assert.Equal(t, 0, got.UsageFavorites)
	assert.True(t, got.IsFavorite)

	assert.Error(t, s.IncrementUsage(ctx, id, "bogus"))
	assert.ErrorIs(t, s.IncrementUsage(ctx, 99999, types.UsageMealPlans), ErrNotFound)
}

func TestAllOrdersByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMany(ctx, []types.Food{
		sampleFood("Feijão", "B1"),
		sampleFood("Arroz", "A1"),
	}))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Arroz", all[0].Name)
	assert.Equal(t, "Feijão", all[1].Name)
}
