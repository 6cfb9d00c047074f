package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth/internal/model"
)

func TestSavePattern_NewAndIdempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	category, err := store.CreateCategory(ctx, h.ID, "Streaming", model.CategoryExpense, "")
	require.NoError(t, err)

	pattern := &model.Pattern{
		HouseholdID: h.ID,
		CategoryID:  category.ID,
		Keywords:    "netflix",
		Priority:    10,
	}
	isNew, err := store.SavePattern(ctx, pattern)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Positive(t, pattern.ID)

	again, err := store.SavePattern(ctx, &model.Pattern{
		HouseholdID: h.ID,
		CategoryID:  category.ID,
		Keywords:    "netflix",
		Priority:    10,
	})
	require.NoError(t, err)
	assert.False(t, again)

	patterns, err := store.GetPatterns(ctx, h.ID)
	require.NoError(t, err)
	assert.Len(t, patterns, 1)
}

func TestSavePattern_RelearnMovesCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	streaming, err := store.CreateCategory(ctx, h.ID, "Streaming", model.CategoryExpense, "")
	require.NoError(t, err)
	entertainment, err := store.CreateCategory(ctx, h.ID, "Entertainment", model.CategoryExpense, "")
	require.NoError(t, err)

	_, err = store.SavePattern(ctx, &model.Pattern{
		HouseholdID: h.ID, CategoryID: streaming.ID, Keywords: "hbo", Priority: 10,
	})
	require.NoError(t, err)

	isNew, err := store.SavePattern(ctx, &model.Pattern{
		HouseholdID: h.ID, CategoryID: entertainment.ID, Keywords: "hbo", Priority: 10,
	})
	require.NoError(t, err)
	assert.False(t, isNew, "existing keywords are re-pointed, not duplicated")

	patterns, err := store.GetPatterns(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, entertainment.ID, patterns[0].CategoryID)
}

func TestGetPatterns_MatchOrder(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	require.NoError(t, store.EnsureDefaultCategories(ctx, h.ID))
	categories, err := store.GetCategories(ctx, h.ID)
	require.NoError(t, err)

	_, err = store.SavePattern(ctx, &model.Pattern{
		HouseholdID: h.ID, CategoryID: categories[0].ID, Keywords: "my local cafe", Priority: 10,
	})
	require.NoError(t, err)

	patterns, err := store.GetPatterns(ctx, h.ID)
	require.NoError(t, err)
	require.NotEmpty(t, patterns)

	// The learned pattern outranks every seeded default.
	assert.Equal(t, "my local cafe", patterns[0].Keywords)
	assert.False(t, patterns[0].IsDefault)
	for i := 1; i < len(patterns); i++ {
		assert.GreaterOrEqual(t, patterns[i-1].Priority, patterns[i].Priority)
	}
}

func TestGetPatterns_DefaultsFirstAtEqualPriority(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	require.NoError(t, store.EnsureDefaultCategories(ctx, h.ID))
	categories, err := store.GetCategories(ctx, h.ID)
	require.NoError(t, err)

	// A learned pattern at the defaults' priority sorts after every default.
	_, err = store.SavePattern(ctx, &model.Pattern{
		HouseholdID: h.ID, CategoryID: categories[0].ID, Keywords: "corner shop", Priority: 0,
	})
	require.NoError(t, err)

	patterns, err := store.GetPatterns(ctx, h.ID)
	require.NoError(t, err)
	require.NotEmpty(t, patterns)
	last := patterns[len(patterns)-1]
	assert.Equal(t, "corner shop", last.Keywords)
	assert.False(t, last.IsDefault)
}

func TestSavePattern_Validation(t *testing.T) {
	store := createTestStorage(t)
	h := createTestHousehold(t, store)

	_, err := store.SavePattern(context.Background(), &model.Pattern{
		HouseholdID: h.ID, CategoryID: 1, Keywords: "   ",
	})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}
