package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/service"
)

func TestSaveTransaction_AssignsID(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	txn := &model.Transaction{
		HouseholdID: h.ID,
		Date:        date("2024-03-01"),
		Description: "Grocery run",
		Amount:      82.50,
		Type:        model.TypeExpense,
		CreatedBy:   "alice",
	}
	require.NoError(t, store.SaveTransaction(ctx, txn))
	require.NotEmpty(t, txn.ID)

	got, err := store.GetTransactionByID(ctx, txn.ID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grocery run", got.Description)
	assert.InDelta(t, 82.50, got.Amount, 0.001)
	assert.Equal(t, model.TypeExpense, got.Type)
	assert.Equal(t, date("2024-03-01"), got.Date)
	assert.False(t, got.Excluded)
}

func TestSaveTransaction_RejectsNegativeAmount(t *testing.T) {
	store := createTestStorage(t)
	h := createTestHousehold(t, store)

	err := store.SaveTransaction(context.Background(), &model.Transaction{
		HouseholdID: h.ID,
		Date:        date("2024-03-01"),
		Description: "Bad",
		Amount:      -5,
		Type:        model.TypeExpense,
	})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestGetTransactions_Filters(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	require.NoError(t, store.EnsureDefaultCategories(ctx, h.ID))
	categories, err := store.GetCategories(ctx, h.ID)
	require.NoError(t, err)
	catID := categories[0].ID

	for _, txn := range []*model.Transaction{
		{HouseholdID: h.ID, Date: date("2024-01-15"), Description: "January", Amount: 10, Type: model.TypeExpense},
		{HouseholdID: h.ID, Date: date("2024-02-15"), Description: "February", Amount: 20, Type: model.TypeExpense, CategoryID: &catID},
		{HouseholdID: h.ID, Date: date("2024-03-15"), Description: "March", Amount: 30, Type: model.TypeExpense},
	} {
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	all, err := store.GetTransactions(ctx, h.ID, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "March", all[0].Description, "newest first")

	start := date("2024-02-01")
	end := date("2024-02-28")
	ranged, err := store.GetTransactions(ctx, h.ID, service.TransactionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "February", ranged[0].Description)

	byCategory, err := store.GetTransactions(ctx, h.ID, service.TransactionFilter{CategoryID: &catID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	limited, err := store.GetTransactions(ctx, h.ID, service.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUpdateTransactionCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	require.NoError(t, store.EnsureDefaultCategories(ctx, h.ID))
	categories, err := store.GetCategories(ctx, h.ID)
	require.NoError(t, err)

	txn := &model.Transaction{
		HouseholdID: h.ID,
		Date:        date("2024-03-01"),
		Description: "NETFLIX.COM",
		Amount:      15.99,
		Type:        model.TypeExpense,
	}
	require.NoError(t, store.SaveTransaction(ctx, txn))

	require.NoError(t, store.UpdateTransactionCategory(ctx, txn.ID, h.ID, categories[0].ID))

	got, err := store.GetTransactionByID(ctx, txn.ID, h.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, categories[0].ID, *got.CategoryID)
}

func TestDeleteTransaction(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	txn := &model.Transaction{
		HouseholdID: h.ID,
		Date:        date("2024-03-01"),
		Description: "Mistake",
		Amount:      1,
		Type:        model.TypeExpense,
	}
	require.NoError(t, store.SaveTransaction(ctx, txn))
	require.NoError(t, store.DeleteTransaction(ctx, txn.ID, h.ID))

	_, err := store.GetTransactionByID(ctx, txn.ID, h.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteTransaction(ctx, txn.ID, h.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTransactions_ScopedToHousehold(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	mine := createTestHousehold(t, store)
	theirs, err := store.CreateHousehold(ctx, "Other", "USD", "mallory")
	require.NoError(t, err)

	txn := &model.Transaction{
		HouseholdID: mine.ID,
		Date:        date("2024-03-01"),
		Description: "Private",
		Amount:      10,
		Type:        model.TypeExpense,
	}
	require.NoError(t, store.SaveTransaction(ctx, txn))

	_, err = store.GetTransactionByID(ctx, txn.ID, theirs.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteTransaction(ctx, txn.ID, theirs.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFindUncategorizedMatching(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	require.NoError(t, store.EnsureDefaultCategories(ctx, h.ID))
	categories, err := store.GetCategories(ctx, h.ID)
	require.NoError(t, err)
	catID := categories[0].ID

	seed := &model.Transaction{
		HouseholdID: h.ID, Date: date("2024-03-05"),
		Description: "NETFLIX.COM 123", Amount: 15.99, Type: model.TypeExpense,
	}
	require.NoError(t, store.SaveTransaction(ctx, seed))
	for _, txn := range []*model.Transaction{
		{HouseholdID: h.ID, Date: date("2024-03-01"), Description: "Netflix subscription", Amount: 15.99, Type: model.TypeExpense},
		{HouseholdID: h.ID, Date: date("2024-03-02"), Description: "NETFLIX.COM 456", Amount: 15.99, Type: model.TypeExpense, CategoryID: &catID},
		{HouseholdID: h.ID, Date: date("2024-03-03"), Description: "Spotify", Amount: 9.99, Type: model.TypeExpense},
	} {
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	matches, err := store.FindUncategorizedMatching(ctx, h.ID, "netflix", seed.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1, "already-categorized and excluded rows are skipped")
	assert.Equal(t, "Netflix subscription", matches[0].Description)
}

func TestCountTransactionsByAccount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	account := createTestAccount(t, store, h.ID, 0)

	count, err := store.CountTransactionsByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, store.SaveTransaction(ctx, &model.Transaction{
		HouseholdID: h.ID, AccountID: &account.ID,
		Date: date("2024-03-01"), Description: "One", Amount: 1, Type: model.TypeExpense,
	}))

	count, err = store.CountTransactionsByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
