package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS households (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					currency TEXT NOT NULL DEFAULT 'USD',
					created_by TEXT NOT NULL,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS household_members (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL,
					role TEXT NOT NULL DEFAULT 'member',
					joined_at TEXT NOT NULL,
					UNIQUE(household_id, user_id)
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
					color TEXT NOT NULL DEFAULT '#3B82F6',
					created_at TEXT NOT NULL
				)`,
				`CREATE INDEX idx_categories_household ON categories(household_id)`,

				`CREATE TABLE IF NOT EXISTS bank_accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					account_type TEXT NOT NULL DEFAULT 'checking',
					institution TEXT,
					account_number_last4 TEXT,
					balance REAL NOT NULL DEFAULT 0,
					currency TEXT NOT NULL DEFAULT 'USD',
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)`,
				`CREATE INDEX idx_bank_accounts_household ON bank_accounts(household_id)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
					account_id INTEGER REFERENCES bank_accounts(id),
					category_id INTEGER REFERENCES categories(id),
					date TEXT NOT NULL,
					description TEXT NOT NULL,
					amount REAL NOT NULL,
					type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
					balance_after REAL,
					import_batch_id INTEGER,
					created_by TEXT,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)`,
				`CREATE INDEX idx_transactions_household_date ON transactions(household_id, date)`,
				`CREATE INDEX idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX idx_transactions_category ON transactions(category_id)`,

				`CREATE TABLE IF NOT EXISTS account_balance_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL REFERENCES bank_accounts(id) ON DELETE CASCADE,
					balance REAL NOT NULL,
					recorded_at TEXT NOT NULL
				)`,
				`CREATE INDEX idx_balance_history_account ON account_balance_history(account_id)`,

				`CREATE TABLE IF NOT EXISTS categorization_patterns (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
					category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
					pattern TEXT NOT NULL,
					priority INTEGER NOT NULL DEFAULT 0,
					is_default INTEGER NOT NULL DEFAULT 0,
					created_at TEXT NOT NULL
				)`,
				`CREATE INDEX idx_patterns_household ON categorization_patterns(household_id)`,

				`CREATE TABLE IF NOT EXISTS csv_mappings (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					date_column TEXT NOT NULL,
					description_column TEXT NOT NULL,
					amount_column TEXT NOT NULL,
					type_column TEXT,
					balance_column TEXT,
					date_format TEXT NOT NULL DEFAULT 'YYYY-MM-DD',
					delimiter TEXT NOT NULL DEFAULT ',',
					has_header INTEGER NOT NULL DEFAULT 1,
					created_at TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS budgets (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
					category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
					amount REAL NOT NULL,
					period TEXT NOT NULL CHECK (period IN ('monthly', 'yearly')),
					start_date TEXT NOT NULL,
					end_date TEXT,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)`,
				`CREATE INDEX idx_budgets_household ON budgets(household_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add excluded_from_reports flag to transactions",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE transactions ADD COLUMN excluded_from_reports INTEGER NOT NULL DEFAULT 0`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Add configurable budget cycle start day to households",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE households ADD COLUMN budget_month_start_day INTEGER NOT NULL DEFAULT 1`)
			return err
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= version {
			continue
		}

		slog.Info("applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		// PRAGMA cannot be parameterized.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
