package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
)

const accountColumns = `id, household_id, name, account_type, institution,
	account_number_last4, balance, currency, is_active, created_at, updated_at`

// CreateAccount inserts an account and records its opening balance snapshot in
// one transaction. The snapshot anchors later calculated-balance arithmetic.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	if account.Type == "" {
		account.Type = model.AccountChecking
	}
	if account.Currency == "" {
		account.Currency = "USD"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO bank_accounts (household_id, name, account_type, institution,
			account_number_last4, balance, currency, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		account.HouseholdID,
		account.Name,
		string(account.Type),
		account.Institution,
		account.NumberLast4,
		account.Balance,
		account.Currency,
		formatTimestamp(ts),
		formatTimestamp(ts),
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get account id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO account_balance_history (account_id, balance, recorded_at)
		VALUES (?, ?, ?)`,
		id, account.Balance, formatTimestamp(ts)); err != nil {
		return fmt.Errorf("failed to record opening balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit account: %w", err)
	}

	account.ID = id
	account.IsActive = true
	account.CreatedAt = ts
	account.UpdatedAt = ts
	return nil
}

// GetAccount returns one account scoped to a household.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id, householdID int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM bank_accounts
		WHERE id = ? AND household_id = ?`, id, householdID)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all of a household's accounts, active first, then by
// name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context, householdID int64) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM bank_accounts
		WHERE household_id = ?
		ORDER BY is_active DESC, name ASC`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccountInfo updates an account's descriptive fields. The balance is
// deliberately left alone; use UpdateAccountBalance for that.
func (s *SQLiteStorage) UpdateAccountInfo(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	if err := validateID(account.ID, "account.ID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE bank_accounts
		SET name = ?, account_type = ?, institution = ?, account_number_last4 = ?,
			currency = ?, updated_at = ?
		WHERE id = ? AND household_id = ?`,
		account.Name,
		string(account.Type),
		account.Institution,
		account.NumberLast4,
		account.Currency,
		formatTimestamp(now()),
		account.ID,
		account.HouseholdID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: account %d", common.ErrNotFound, account.ID)
	}
	return nil
}

// UpdateAccountBalance sets the stored balance and appends a snapshot to the
// balance history in one transaction.
func (s *SQLiteStorage) UpdateAccountBalance(ctx context.Context, accountID int64, balance float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := formatTimestamp(now())
	res, err := tx.ExecContext(ctx, `
		UPDATE bank_accounts SET balance = ?, updated_at = ? WHERE id = ?`,
		balance, ts, accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: account %d", common.ErrNotFound, accountID)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO account_balance_history (account_id, balance, recorded_at)
		VALUES (?, ?, ?)`,
		accountID, balance, ts); err != nil {
		return fmt.Errorf("failed to record balance snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit balance update: %w", err)
	}
	return nil
}

// SetAccountActive toggles the active flag. Inactive accounts keep their
// history but are hidden from import and entry flows.
func (s *SQLiteStorage) SetAccountActive(ctx context.Context, accountID, householdID int64, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE bank_accounts SET is_active = ?, updated_at = ?
		WHERE id = ? AND household_id = ?`,
		active, formatTimestamp(now()), accountID, householdID)
	if err != nil {
		return fmt.Errorf("failed to update account active flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: account %d", common.ErrNotFound, accountID)
	}
	return nil
}

// DeleteAccount removes an account that has no transactions. Accounts with
// history must be deactivated instead so past imports stay auditable.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, accountID, householdID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return err
	}

	count, err := s.CountTransactionsByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: account %d has %d transactions", common.ErrReferentialViolation, accountID, count)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM bank_accounts WHERE id = ? AND household_id = ?`,
		accountID, householdID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: account %d", common.ErrNotFound, accountID)
	}
	return nil
}

// GetEarliestSnapshot returns the oldest balance history row for an account,
// or nil when the account has no history.
func (s *SQLiteStorage) GetEarliestSnapshot(ctx context.Context, accountID int64) (*model.BalanceSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return nil, err
	}

	var (
		snap     model.BalanceSnapshot
		recorded string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, balance, recorded_at
		FROM account_balance_history
		WHERE account_id = ?
		ORDER BY recorded_at ASC, id ASC
		LIMIT 1`, accountID).Scan(&snap.ID, &snap.AccountID, &snap.Balance, &recorded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query earliest snapshot: %w", err)
	}
	snap.RecordedAt = parseTimestamp(recorded)
	return &snap, nil
}

// GetLatestCheckpoint returns the most recent transaction that carried a
// statement balance, or nil when the account has none.
func (s *SQLiteStorage) GetLatestCheckpoint(ctx context.Context, accountID int64) (*model.BalanceCheckpoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return nil, err
	}

	var (
		cp      model.BalanceCheckpoint
		date    string
		created string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT date, created_at, balance_after
		FROM transactions
		WHERE account_id = ? AND balance_after IS NOT NULL
		ORDER BY date DESC, created_at DESC
		LIMIT 1`, accountID).Scan(&date, &created, &cp.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest checkpoint: %w", err)
	}
	cp.Date = parseDate(date)
	cp.CreatedAt = parseTimestamp(created)
	return &cp, nil
}

// NetAfterCheckpoint returns the signed sum of transactions recorded after the
// checkpoint position. Income counts positive, expenses negative.
func (s *SQLiteStorage) NetAfterCheckpoint(ctx context.Context, accountID int64, checkpoint model.BalanceCheckpoint) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return 0, err
	}

	var net float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE account_id = ?
		  AND (date > ? OR (date = ? AND created_at > ?))`,
		accountID,
		formatDate(checkpoint.Date),
		formatDate(checkpoint.Date),
		formatTimestamp(checkpoint.CreatedAt),
	).Scan(&net)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions after checkpoint: %w", err)
	}
	return net, nil
}

// NetAll returns the signed sum and count of every transaction on the account.
func (s *SQLiteStorage) NetAll(ctx context.Context, accountID int64) (float64, int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return 0, 0, err
	}

	var (
		net   float64
		count int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0), COUNT(*)
		FROM transactions
		WHERE account_id = ?`, accountID).Scan(&net, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return net, count, nil
}

func scanAccount(row scanner) (*model.Account, error) {
	var (
		account model.Account
		created string
		updated string
	)
	err := row.Scan(
		&account.ID,
		&account.HouseholdID,
		&account.Name,
		&account.Type,
		&account.Institution,
		&account.NumberLast4,
		&account.Balance,
		&account.Currency,
		&account.IsActive,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	account.CreatedAt = parseTimestamp(created)
	account.UpdatedAt = parseTimestamp(updated)
	return &account, nil
}
