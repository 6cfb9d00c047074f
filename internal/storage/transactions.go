package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/service"
)

const transactionColumns = `id, household_id, account_id, category_id, date, description,
	amount, type, balance_after, excluded_from_reports, import_batch_id, created_by, created_at, updated_at`

// SaveTransaction persists a single transaction, assigning an ID and creation
// timestamp when absent.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now()
	}
	txn.UpdatedAt = txn.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID,
		txn.HouseholdID,
		txn.AccountID,
		txn.CategoryID,
		formatDate(txn.Date),
		txn.Description,
		txn.Amount,
		string(txn.Type),
		txn.BalanceAfter,
		txn.Excluded,
		txn.ImportBatchID,
		txn.CreatedBy,
		formatTimestamp(txn.CreatedAt),
		formatTimestamp(txn.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}
	return nil
}

// GetTransactionByID returns one transaction scoped to a household.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string, householdID int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ? AND household_id = ?`, id, householdID)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// GetTransactions returns a household's transactions, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, householdID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE household_id = ?`
	args := []any{householdID}

	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, formatDate(*filter.EndDate))
	}
	if filter.CategoryID != nil {
		query += " AND category_id = ?"
		args = append(args, *filter.CategoryID)
	}
	if filter.AccountID != nil {
		query += " AND account_id = ?"
		args = append(args, *filter.AccountID)
	}

	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// UpdateTransactionCategory assigns a category to one transaction.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, id string, householdID, categoryID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, updated_at = ?
		WHERE id = ? AND household_id = ?`,
		categoryID, formatTimestamp(now()), id, householdID)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return nil
}

// DeleteTransaction removes one transaction.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string, householdID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return nil
}

// findMatchLimit caps the candidate list offered for bulk categorization.
const findMatchLimit = 50

// FindUncategorizedMatching returns uncategorized transactions whose
// description contains the pattern, case-insensitively, newest first.
func (s *SQLiteStorage) FindUncategorizedMatching(ctx context.Context, householdID int64, pattern, excludeID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE household_id = ?
		  AND category_id IS NULL
		  AND description LIKE ? ESCAPE '\'`
	args := []any{householdID, "%" + escapeLike(pattern) + "%"}

	if excludeID != "" {
		query += " AND id != ?"
		args = append(args, excludeID)
	}

	query += " ORDER BY date DESC, created_at DESC LIMIT ?"
	args = append(args, findMatchLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matching transactions: %w", err)
	}
	defer rows.Close()

	matches, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	slog.Debug("found matching transactions", "pattern", pattern, "count", len(matches))
	return matches, nil
}

// escapeLike neutralizes LIKE metacharacters in user-supplied patterns.
// SQLite's LIKE is case-insensitive for ASCII by default.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// CountTransactionsByAccount returns how many transactions reference the
// account. Used to block account deletion.
func (s *SQLiteStorage) CountTransactionsByAccount(ctx context.Context, accountID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = ?`, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		txn     model.Transaction
		date    string
		created string
		updated string
	)
	err := row.Scan(
		&txn.ID,
		&txn.HouseholdID,
		&txn.AccountID,
		&txn.CategoryID,
		&date,
		&txn.Description,
		&txn.Amount,
		&txn.Type,
		&txn.BalanceAfter,
		&txn.Excluded,
		&txn.ImportBatchID,
		&txn.CreatedBy,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	txn.Date = parseDate(date)
	txn.CreatedAt = parseTimestamp(created)
	txn.UpdatedAt = parseTimestamp(updated)
	return &txn, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}
