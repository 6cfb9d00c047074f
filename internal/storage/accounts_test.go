package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
)

func createTestAccount(t *testing.T, store *SQLiteStorage, householdID int64, balance float64) *model.Account {
	t.Helper()
	account := &model.Account{
		HouseholdID: householdID,
		Name:        "Checking",
		Type:        model.AccountChecking,
		Balance:     balance,
	}
	require.NoError(t, store.CreateAccount(context.Background(), account))
	return account
}

func TestCreateAccount_RecordsOpeningSnapshot(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	account := createTestAccount(t, store, h.ID, 1500.00)
	assert.Positive(t, account.ID)
	assert.True(t, account.IsActive)

	snap, err := store.GetEarliestSnapshot(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.InDelta(t, 1500.00, snap.Balance, 0.001)
	assert.Equal(t, account.ID, snap.AccountID)
}

func TestUpdateAccountBalance_AppendsSnapshot(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	account := createTestAccount(t, store, h.ID, 100.00)

	require.NoError(t, store.UpdateAccountBalance(ctx, account.ID, 250.00))

	got, err := store.GetAccount(ctx, account.ID, h.ID)
	require.NoError(t, err)
	assert.InDelta(t, 250.00, got.Balance, 0.001)

	// The opening snapshot is still the earliest; history is append-only.
	snap, err := store.GetEarliestSnapshot(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.InDelta(t, 100.00, snap.Balance, 0.001)
}

func TestUpdateAccountInfo_LeavesBalanceAlone(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	account := createTestAccount(t, store, h.ID, 42.00)

	account.Name = "Joint Checking"
	account.Institution = "First National"
	account.NumberLast4 = "1234"
	require.NoError(t, store.UpdateAccountInfo(ctx, account))

	got, err := store.GetAccount(ctx, account.ID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joint Checking", got.Name)
	assert.Equal(t, "First National", got.Institution)
	assert.InDelta(t, 42.00, got.Balance, 0.001)
}

func TestListAccounts_ActiveFirst(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	first := createTestAccount(t, store, h.ID, 0)
	second := &model.Account{HouseholdID: h.ID, Name: "Savings", Type: model.AccountSavings}
	require.NoError(t, store.CreateAccount(ctx, second))

	require.NoError(t, store.SetAccountActive(ctx, first.ID, h.ID, false))

	accounts, err := store.ListAccounts(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Savings", accounts[0].Name)
	assert.True(t, accounts[0].IsActive)
	assert.False(t, accounts[1].IsActive)
}

func TestDeleteAccount_BlockedByTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	account := createTestAccount(t, store, h.ID, 0)

	txn := &model.Transaction{
		HouseholdID: h.ID,
		AccountID:   &account.ID,
		Date:        date("2024-03-01"),
		Description: "Coffee",
		Amount:      4.50,
		Type:        model.TypeExpense,
	}
	require.NoError(t, store.SaveTransaction(ctx, txn))

	err := store.DeleteAccount(ctx, account.ID, h.ID)
	assert.ErrorIs(t, err, common.ErrReferentialViolation)

	// Still present and can be deactivated instead.
	require.NoError(t, store.SetAccountActive(ctx, account.ID, h.ID, false))
}

func TestDeleteAccount_EmptyAccount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	account := createTestAccount(t, store, h.ID, 0)

	require.NoError(t, store.DeleteAccount(ctx, account.ID, h.ID))

	_, err := store.GetAccount(ctx, account.ID, h.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetLatestCheckpoint(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	account := createTestAccount(t, store, h.ID, 0)

	cp, err := store.GetLatestCheckpoint(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, cp)

	older := 400.00
	newer := 500.00
	for _, txn := range []*model.Transaction{
		{HouseholdID: h.ID, AccountID: &account.ID, Date: date("2024-03-05"), Description: "A", Amount: 10, Type: model.TypeExpense, BalanceAfter: &older},
		{HouseholdID: h.ID, AccountID: &account.ID, Date: date("2024-03-10"), Description: "B", Amount: 20, Type: model.TypeExpense, BalanceAfter: &newer},
	} {
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	cp, err = store.GetLatestCheckpoint(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.InDelta(t, 500.00, cp.Balance, 0.001)
	assert.Equal(t, date("2024-03-10"), cp.Date)
}

func TestNetAfterCheckpoint(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	account := createTestAccount(t, store, h.ID, 0)

	balance := 500.00
	require.NoError(t, store.SaveTransaction(ctx, &model.Transaction{
		HouseholdID: h.ID, AccountID: &account.ID,
		Date: date("2024-03-10"), Description: "Statement", Amount: 20,
		Type: model.TypeExpense, BalanceAfter: &balance,
	}))
	require.NoError(t, store.SaveTransaction(ctx, &model.Transaction{
		HouseholdID: h.ID, AccountID: &account.ID,
		Date: date("2024-03-12"), Description: "Groceries", Amount: 50,
		Type: model.TypeExpense,
	}))
	require.NoError(t, store.SaveTransaction(ctx, &model.Transaction{
		HouseholdID: h.ID, AccountID: &account.ID,
		Date: date("2024-03-08"), Description: "Earlier, ignored", Amount: 999,
		Type: model.TypeExpense,
	}))

	cp, err := store.GetLatestCheckpoint(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, cp)

	net, err := store.NetAfterCheckpoint(ctx, account.ID, *cp)
	require.NoError(t, err)
	assert.InDelta(t, -50.00, net, 0.001)
}

func TestNetAll(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	account := createTestAccount(t, store, h.ID, 0)

	net, count, err := store.NetAll(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, net)
	assert.Zero(t, count)

	for _, txn := range []*model.Transaction{
		{HouseholdID: h.ID, AccountID: &account.ID, Date: date("2024-03-01"), Description: "Salary", Amount: 1000, Type: model.TypeIncome},
		{HouseholdID: h.ID, AccountID: &account.ID, Date: date("2024-03-02"), Description: "Rent", Amount: 600, Type: model.TypeExpense},
	} {
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	net, count, err = store.NetAll(ctx, account.ID)
	require.NoError(t, err)
	assert.InDelta(t, 400.00, net, 0.001)
	assert.Equal(t, 2, count)
}
