package storage

import (
	"context"
	"fmt"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/service"
)

// CreateBudget persists a budget cap for one category.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	var endDate any
	if budget.EndDate != nil {
		endDate = formatDate(*budget.EndDate)
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (household_id, category_id, amount, period, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.HouseholdID,
		budget.CategoryID,
		budget.Amount,
		string(budget.Period),
		formatDate(budget.StartDate),
		endDate,
		formatTimestamp(ts),
		formatTimestamp(ts),
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get budget id: %w", err)
	}
	budget.ID = id
	budget.CreatedAt = ts
	budget.UpdatedAt = ts
	return nil
}

// ListBudgets returns a household's budgets ordered by category.
func (s *SQLiteStorage) ListBudgets(ctx context.Context, householdID int64) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, household_id, category_id, amount, period, start_date, end_date, created_at, updated_at
		FROM budgets
		WHERE household_id = ?
		ORDER BY category_id ASC, period ASC`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var (
			b       model.Budget
			start   string
			end     *string
			created string
			updated string
		)
		if err := rows.Scan(&b.ID, &b.HouseholdID, &b.CategoryID, &b.Amount, &b.Period, &start, &end, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		b.StartDate = parseDate(start)
		if end != nil {
			endDate := parseDate(*end)
			b.EndDate = &endDate
		}
		b.CreatedAt = parseTimestamp(created)
		b.UpdatedAt = parseTimestamp(updated)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes one budget.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id, householdID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM budgets WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: budget %d", common.ErrNotFound, id)
	}
	return nil
}

// BudgetProgress returns each budget of the given recurrence paired with the
// live spend inside the date window. Spend counts expense transactions only
// and skips anything flagged as excluded from reports.
func (s *SQLiteStorage) BudgetProgress(ctx context.Context, householdID int64, periodType model.BudgetPeriodType, startDate, endDate string) ([]service.BudgetLine, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}
	if err := validateString(startDate, "startDate"); err != nil {
		return nil, err
	}
	if err := validateString(endDate, "endDate"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.household_id, b.category_id, b.amount, b.period,
			b.start_date, b.end_date, b.created_at, b.updated_at,
			c.name, c.color,
			COALESCE((
				SELECT SUM(t.amount) FROM transactions t
				WHERE t.household_id = b.household_id
				  AND t.category_id = b.category_id
				  AND t.type = 'expense'
				  AND t.excluded_from_reports = 0
				  AND t.date >= ? AND t.date <= ?
			), 0) AS spent
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.household_id = ? AND b.period = ?
		ORDER BY c.name ASC`,
		startDate, endDate, householdID, string(periodType))
	if err != nil {
		return nil, fmt.Errorf("failed to query budget progress: %w", err)
	}
	defer rows.Close()

	var lines []service.BudgetLine
	for rows.Next() {
		var (
			line    service.BudgetLine
			start   string
			end     *string
			created string
			updated string
		)
		if err := rows.Scan(
			&line.Budget.ID,
			&line.Budget.HouseholdID,
			&line.Budget.CategoryID,
			&line.Budget.Amount,
			&line.Budget.Period,
			&start,
			&end,
			&created,
			&updated,
			&line.CategoryName,
			&line.CategoryColor,
			&line.Spent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget progress: %w", err)
		}
		line.Budget.StartDate = parseDate(start)
		if end != nil {
			endDate := parseDate(*end)
			line.Budget.EndDate = &endDate
		}
		line.Budget.CreatedAt = parseTimestamp(created)
		line.Budget.UpdatedAt = parseTimestamp(updated)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget progress: %w", err)
	}
	return lines, nil
}
