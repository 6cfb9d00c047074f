package model

import "time"

// BudgetPeriodType selects the recurrence of a budget.
type BudgetPeriodType string

const (
	// BudgetMonthly budgets recur per budget cycle (not necessarily the
	// calendar month when the household uses a custom cycle start day).
	BudgetMonthly BudgetPeriodType = "monthly"
	// BudgetYearly budgets recur per calendar year.
	BudgetYearly BudgetPeriodType = "yearly"
)

// Budget caps spending for one category. The spent figure is always computed
// live from transactions, never stored.
type Budget struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartDate   time.Time
	EndDate     *time.Time // nil means open-ended
	Period      BudgetPeriodType
	ID          int64
	HouseholdID int64
	CategoryID  int64
	Amount      float64
}
