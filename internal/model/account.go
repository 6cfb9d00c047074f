package model

import "time"

// AccountType describes the kind of bank account being tracked.
type AccountType string

// Supported account types.
const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

// Account is a bank account owned by a household. Balance is the
// authoritative, directly editable value; the calculated balance is derived
// from transaction history at query time.
type Account struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Institution string
	NumberLast4 string
	Currency    string
	Type        AccountType
	ID          int64
	HouseholdID int64
	Balance     float64
	IsActive    bool
}

// BalanceSnapshot is an append-only record that the account balance was known
// to be a specific value at a specific time. The earliest snapshot serves as
// the opening balance for calculated-balance arithmetic.
type BalanceSnapshot struct {
	RecordedAt time.Time
	ID         int64
	AccountID  int64
	Balance    float64
}
