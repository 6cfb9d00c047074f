// Package service defines the interfaces and shared result types that sit
// between the core components and their collaborators.
package service

import (
	"context"
	"time"

	"github.com/hearthfin/hearth/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int64
	AccountID  *int64
	Limit      int
}

// BudgetLine pairs a budget with its live spend inside one period. Spent is
// always computed from transactions at query time, never stored.
type BudgetLine struct {
	CategoryName  string
	CategoryColor string
	Budget        model.Budget
	Spent         float64
}

// Storage defines the contract for the persistence layer. The SQLite
// implementation lives in internal/storage.
type Storage interface {
	// Household operations
	CreateHousehold(ctx context.Context, name, currency, createdBy string) (*model.Household, error)
	GetHousehold(ctx context.Context, id int64) (*model.Household, error)
	UpdateHouseholdSettings(ctx context.Context, id int64, currency string, cycleStart int) error
	AddMember(ctx context.Context, householdID int64, userID string, role model.MemberRole) error
	IsMember(ctx context.Context, userID string, householdID int64) (bool, error)

	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactionByID(ctx context.Context, id string, householdID int64) (*model.Transaction, error)
	GetTransactions(ctx context.Context, householdID int64, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id string, householdID, categoryID int64) error
	DeleteTransaction(ctx context.Context, id string, householdID int64) error
	FindUncategorizedMatching(ctx context.Context, householdID int64, pattern, excludeID string) ([]model.Transaction, error)
	CountTransactionsByAccount(ctx context.Context, accountID int64) (int, error)

	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id, householdID int64) (*model.Account, error)
	ListAccounts(ctx context.Context, householdID int64) ([]model.Account, error)
	UpdateAccountInfo(ctx context.Context, account *model.Account) error
	UpdateAccountBalance(ctx context.Context, accountID int64, balance float64) error
	SetAccountActive(ctx context.Context, accountID, householdID int64, active bool) error
	DeleteAccount(ctx context.Context, accountID, householdID int64) error
	GetEarliestSnapshot(ctx context.Context, accountID int64) (*model.BalanceSnapshot, error)

	// Reconciliation queries
	GetLatestCheckpoint(ctx context.Context, accountID int64) (*model.BalanceCheckpoint, error)
	NetAfterCheckpoint(ctx context.Context, accountID int64, checkpoint model.BalanceCheckpoint) (float64, error)
	NetAll(ctx context.Context, accountID int64) (float64, int, error)

	// Category and pattern operations
	GetCategories(ctx context.Context, householdID int64) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id, householdID int64) (*model.Category, error)
	CreateCategory(ctx context.Context, householdID int64, name string, categoryType model.CategoryType, color string) (*model.Category, error)
	EnsureDefaultCategories(ctx context.Context, householdID int64) error
	GetPatterns(ctx context.Context, householdID int64) ([]model.Pattern, error)
	SavePattern(ctx context.Context, pattern *model.Pattern) (bool, error)

	// CSV mapping operations
	SaveMapping(ctx context.Context, mapping *model.CSVMapping) error
	ListMappings(ctx context.Context, householdID int64) ([]model.CSVMapping, error)
	GetMappingByName(ctx context.Context, householdID int64, name string) (*model.CSVMapping, error)

	// Budget operations
	CreateBudget(ctx context.Context, budget *model.Budget) error
	ListBudgets(ctx context.Context, householdID int64) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, id, householdID int64) error
	BudgetProgress(ctx context.Context, householdID int64, periodType model.BudgetPeriodType, startDate, endDate string) ([]BudgetLine, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
