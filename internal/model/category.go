package model

import "time"

// CategoryType indicates whether a category applies to income or expense
// transactions.
type CategoryType string

const (
	// CategoryIncome represents categories for income transactions.
	CategoryIncome CategoryType = "income"
	// CategoryExpense represents categories for expense transactions.
	CategoryExpense CategoryType = "expense"
)

// Category groups transactions within a household.
type Category struct {
	CreatedAt   time.Time
	Name        string
	Color       string
	Type        CategoryType
	ID          int64
	HouseholdID int64
}
