package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
)

func TestSaveMapping_Roundtrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	mapping := &model.CSVMapping{
		HouseholdID:       h.ID,
		Name:              "My Bank",
		DateColumn:        "Transaction Date",
		DescriptionColumn: "Merchant",
		AmountColumn:      "Amount",
		BalanceColumn:     "Balance",
		DateFormat:        "MM/DD/YYYY",
		Delimiter:         ",",
		HasHeader:         true,
	}
	require.NoError(t, store.SaveMapping(ctx, mapping))
	assert.Positive(t, mapping.ID)

	got, err := store.GetMappingByName(ctx, h.ID, "My Bank")
	require.NoError(t, err)
	assert.Equal(t, "Transaction Date", got.DateColumn)
	assert.Equal(t, "Balance", got.BalanceColumn)
	assert.Equal(t, "MM/DD/YYYY", got.DateFormat)
	assert.True(t, got.HasHeader)
}

func TestSaveMapping_ReplacesByName(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	first := &model.CSVMapping{
		HouseholdID:       h.ID,
		Name:              "My Bank",
		DateColumn:        "Date",
		DescriptionColumn: "Description",
		AmountColumn:      "Amount",
	}
	require.NoError(t, store.SaveMapping(ctx, first))

	second := &model.CSVMapping{
		HouseholdID:       h.ID,
		Name:              "My Bank",
		DateColumn:        "Bokföringsdag",
		DescriptionColumn: "Text",
		AmountColumn:      "Belopp",
		Delimiter:         ";",
	}
	require.NoError(t, store.SaveMapping(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	mappings, err := store.ListMappings(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "Bokföringsdag", mappings[0].DateColumn)
	assert.Equal(t, ";", mappings[0].Delimiter)
}

func TestListMappings_NewestFirst(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	for _, name := range []string{"Old Bank", "New Bank"} {
		require.NoError(t, store.SaveMapping(ctx, &model.CSVMapping{
			HouseholdID:       h.ID,
			Name:              name,
			DateColumn:        "Date",
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
		}))
	}

	mappings, err := store.ListMappings(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, "New Bank", mappings[0].Name)
	assert.Equal(t, "Old Bank", mappings[1].Name)
}

func TestSaveMapping_Defaults(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	mapping := &model.CSVMapping{
		HouseholdID:       h.ID,
		Name:              "Bare",
		DateColumn:        "Date",
		DescriptionColumn: "Description",
		AmountColumn:      "Amount",
	}
	require.NoError(t, store.SaveMapping(ctx, mapping))
	assert.Equal(t, "YYYY-MM-DD", mapping.DateFormat)
	assert.Equal(t, ",", mapping.Delimiter)
}

func TestSaveMapping_RequiresCoreColumns(t *testing.T) {
	store := createTestStorage(t)
	h := createTestHousehold(t, store)

	err := store.SaveMapping(context.Background(), &model.CSVMapping{
		HouseholdID: h.ID,
		Name:        "Incomplete",
		DateColumn:  "Date",
	})
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestGetMappingByName_NotFound(t *testing.T) {
	store := createTestStorage(t)
	h := createTestHousehold(t, store)

	_, err := store.GetMappingByName(context.Background(), h.ID, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
