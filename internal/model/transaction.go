// Package model defines the core domain types shared across the application.
package model

import "time"

// TransactionType distinguishes money flowing into an account from money
// flowing out. Amounts are always stored as absolute magnitudes; the sign of
// a transaction is derived from its type.
type TransactionType string

const (
	// TypeIncome marks transactions that increase an account balance.
	TypeIncome TransactionType = "income"
	// TypeExpense marks transactions that decrease an account balance.
	TypeExpense TransactionType = "expense"
)

// Transaction represents a single financial event within a household.
type Transaction struct {
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	BalanceAfter  *float64 // account balance reported by the source CSV at this row, if any
	CategoryID    *int64
	AccountID     *int64
	ImportBatchID *int64 // groups rows created by one CSV import
	ID            string
	Description   string
	CreatedBy     string
	Type          TransactionType
	HouseholdID   int64
	Amount        float64
	Excluded      bool // excluded from reports and budget math
}

// Signed returns the amount with the sign implied by the transaction type.
func (t *Transaction) Signed() float64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// BalanceCheckpoint is a balance known to be accurate at a specific
// transaction, sourced from an imported CSV's running-balance column.
type BalanceCheckpoint struct {
	Date      time.Time
	CreatedAt time.Time
	Balance   float64
}
