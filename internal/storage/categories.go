package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hearthfin/hearth/internal/categorize"
	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
)

// defaultCategoryColor is applied when no explicit color is given.
const defaultCategoryColor = "#3B82F6"

// GetCategories returns all of a household's categories, income first, then
// by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context, householdID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, household_id, name, type, color, created_at
		FROM categories
		WHERE household_id = ?
		ORDER BY type ASC, name ASC`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// GetCategoryByID returns one category scoped to a household.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id, householdID int64) (*model.Category, error) {
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
		SELECT id, household_id, name, type, color, created_at
		FROM categories
		WHERE id = ? AND household_id = ?`, id, householdID)

	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return category, nil
}

// CreateCategory adds a category to a household.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, householdID int64, name string, categoryType model.CategoryType, color string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	switch categoryType {
	case model.CategoryIncome, model.CategoryExpense:
	default:
		return nil, fmt.Errorf("%w: unknown category type %q", common.ErrInvalidConfig, categoryType)
	}
	if color == "" {
		color = defaultCategoryColor
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (household_id, name, type, color, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		householdID, name, string(categoryType), color, formatTimestamp(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category id: %w", err)
	}

	return &model.Category{
		ID:          id,
		HouseholdID: householdID,
		Name:        name,
		Type:        categoryType,
		Color:       color,
		CreatedAt:   ts,
	}, nil
}

// EnsureDefaultCategories seeds the stock categories and their keyword
// patterns for a household that has none yet. Safe to call repeatedly; it
// does nothing once any category exists.
func (s *SQLiteStorage) EnsureDefaultCategories(ctx context.Context, householdID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE household_id = ?`, householdID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := formatTimestamp(now())
	for _, seed := range categorize.DefaultPatterns {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO categories (household_id, name, type, color, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			householdID, seed.Category, string(seed.Type), defaultCategoryColor, ts)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", seed.Category, err)
		}

		categoryID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get seeded category id: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categorization_patterns (household_id, category_id, pattern, priority, is_default, created_at)
			VALUES (?, ?, ?, 0, 1, ?)`,
			householdID, categoryID, seed.Keywords, ts); err != nil {
			return fmt.Errorf("failed to seed pattern for %q: %w", seed.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit default categories: %w", err)
	}

	slog.Info("seeded default categories",
		"household_id", householdID,
		"count", len(categorize.DefaultPatterns))
	return nil
}

func scanCategory(row scanner) (*model.Category, error) {
	var (
		category model.Category
		created  string
	)
	err := row.Scan(
		&category.ID,
		&category.HouseholdID,
		&category.Name,
		&category.Type,
		&category.Color,
		&created,
	)
	if err != nil {
		return nil, err
	}
	category.CreatedAt = parseTimestamp(created)
	return &category, nil
}
