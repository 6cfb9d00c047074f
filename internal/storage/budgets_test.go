package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
)

func TestCreateBudget_Roundtrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	category, err := store.CreateCategory(ctx, h.ID, "Groceries", model.CategoryExpense, "")
	require.NoError(t, err)

	budget := &model.Budget{
		HouseholdID: h.ID,
		CategoryID:  category.ID,
		Amount:      500,
		Period:      model.BudgetMonthly,
		StartDate:   date("2024-01-01"),
	}
	require.NoError(t, store.CreateBudget(ctx, budget))
	assert.Positive(t, budget.ID)

	budgets, err := store.ListBudgets(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.InDelta(t, 500, budgets[0].Amount, 0.001)
	assert.Nil(t, budgets[0].EndDate)
}

func TestCreateBudget_Validation(t *testing.T) {
	store := createTestStorage(t)
	h := createTestHousehold(t, store)

	err := store.CreateBudget(context.Background(), &model.Budget{
		HouseholdID: h.ID,
		CategoryID:  1,
		Amount:      0,
		Period:      model.BudgetMonthly,
		StartDate:   date("2024-01-01"),
	})
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestDeleteBudget(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	category, err := store.CreateCategory(ctx, h.ID, "Dining", model.CategoryExpense, "")
	require.NoError(t, err)

	budget := &model.Budget{
		HouseholdID: h.ID,
		CategoryID:  category.ID,
		Amount:      200,
		Period:      model.BudgetMonthly,
		StartDate:   date("2024-01-01"),
	}
	require.NoError(t, store.CreateBudget(ctx, budget))
	require.NoError(t, store.DeleteBudget(ctx, budget.ID, h.ID))

	err = store.DeleteBudget(ctx, budget.ID, h.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestBudgetProgress(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	groceries, err := store.CreateCategory(ctx, h.ID, "Groceries", model.CategoryExpense, "#22C55E")
	require.NoError(t, err)
	dining, err := store.CreateCategory(ctx, h.ID, "Dining", model.CategoryExpense, "")
	require.NoError(t, err)

	for _, budget := range []*model.Budget{
		{HouseholdID: h.ID, CategoryID: groceries.ID, Amount: 500, Period: model.BudgetMonthly, StartDate: date("2024-01-01")},
		{HouseholdID: h.ID, CategoryID: dining.ID, Amount: 3000, Period: model.BudgetYearly, StartDate: date("2024-01-01")},
	} {
		require.NoError(t, store.CreateBudget(ctx, budget))
	}

	for _, txn := range []*model.Transaction{
		{HouseholdID: h.ID, Date: date("2024-03-05"), Description: "Supermarket", Amount: 120, Type: model.TypeExpense, CategoryID: &groceries.ID},
		{HouseholdID: h.ID, Date: date("2024-03-20"), Description: "Supermarket", Amount: 80, Type: model.TypeExpense, CategoryID: &groceries.ID},
		{HouseholdID: h.ID, Date: date("2024-04-02"), Description: "Outside window", Amount: 999, Type: model.TypeExpense, CategoryID: &groceries.ID},
		{HouseholdID: h.ID, Date: date("2024-03-10"), Description: "Refund", Amount: 50, Type: model.TypeIncome, CategoryID: &groceries.ID},
	} {
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	excluded := &model.Transaction{
		HouseholdID: h.ID, Date: date("2024-03-15"), Description: "Transfer", Amount: 400,
		Type: model.TypeExpense, CategoryID: &groceries.ID, Excluded: true,
	}
	require.NoError(t, store.SaveTransaction(ctx, excluded))

	lines, err := store.BudgetProgress(ctx, h.ID, model.BudgetMonthly, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, lines, 1, "yearly budgets are not part of the monthly view")
	assert.Equal(t, "Groceries", lines[0].CategoryName)
	assert.Equal(t, "#22C55E", lines[0].CategoryColor)
	assert.InDelta(t, 200, lines[0].Spent, 0.001, "income, excluded, and out-of-window rows do not count")
	assert.InDelta(t, 500, lines[0].Budget.Amount, 0.001)
}

func TestBudgetProgress_NoSpend(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)
	category, err := store.CreateCategory(ctx, h.ID, "Fitness", model.CategoryExpense, "")
	require.NoError(t, err)

	require.NoError(t, store.CreateBudget(ctx, &model.Budget{
		HouseholdID: h.ID, CategoryID: category.ID, Amount: 100,
		Period: model.BudgetMonthly, StartDate: date("2024-01-01"),
	}))

	lines, err := store.BudgetProgress(ctx, h.ID, model.BudgetMonthly, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Zero(t, lines[0].Spent)
}
