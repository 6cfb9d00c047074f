package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hearthfin/hearth/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidID          = errors.New("identifier must be positive")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidPattern     = errors.New("invalid pattern")
	ErrInvalidMapping     = errors.New("invalid csv mapping")
	ErrInvalidBudget      = errors.New("invalid budget")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a numeric identifier is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.HouseholdID <= 0 {
		return fmt.Errorf("%w: missing household", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if txn.Amount < 0 {
		return fmt.Errorf("%w: amount must be an absolute value", ErrInvalidTransaction)
	}
	switch txn.Type {
	case model.TypeIncome, model.TypeExpense:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}
	return nil
}

// validateAccount validates an account.
func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.HouseholdID <= 0 {
		return fmt.Errorf("%w: missing household", ErrInvalidAccount)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAccount)
	}
	return nil
}

// validatePattern validates a categorization pattern.
func validatePattern(pattern *model.Pattern) error {
	if pattern == nil {
		return fmt.Errorf("%w: pattern", ErrNilParameter)
	}
	if pattern.HouseholdID <= 0 {
		return fmt.Errorf("%w: missing household", ErrInvalidPattern)
	}
	if pattern.CategoryID <= 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidPattern)
	}
	if strings.TrimSpace(pattern.Keywords) == "" {
		return fmt.Errorf("%w: missing keywords", ErrInvalidPattern)
	}
	return nil
}

// validateMapping validates a CSV column mapping.
func validateMapping(mapping *model.CSVMapping) error {
	if mapping == nil {
		return fmt.Errorf("%w: mapping", ErrNilParameter)
	}
	if mapping.HouseholdID <= 0 {
		return fmt.Errorf("%w: missing household", ErrInvalidMapping)
	}
	if strings.TrimSpace(mapping.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidMapping)
	}
	for param, value := range map[string]string{
		"date column":        mapping.DateColumn,
		"description column": mapping.DescriptionColumn,
		"amount column":      mapping.AmountColumn,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalidMapping, param)
		}
	}
	return nil
}

// validateBudget validates a budget.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.HouseholdID <= 0 {
		return fmt.Errorf("%w: missing household", ErrInvalidBudget)
	}
	if budget.CategoryID <= 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if budget.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBudget)
	}
	switch budget.Period {
	case model.BudgetMonthly, model.BudgetYearly:
	default:
		return fmt.Errorf("%w: unknown period %q", ErrInvalidBudget, budget.Period)
	}
	if budget.StartDate.IsZero() {
		return fmt.Errorf("%w: missing start date", ErrInvalidBudget)
	}
	return nil
}
