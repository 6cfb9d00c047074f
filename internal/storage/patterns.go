package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hearthfin/hearth/internal/model"
)

// GetPatterns returns a household's categorization patterns in match order:
// higher priority first, seeded defaults before user-learned at equal
// priority, newest first as the final tiebreak. Learned patterns still
// outrank defaults overall because they carry a higher priority.
func (s *SQLiteStorage) GetPatterns(ctx context.Context, householdID int64) ([]model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, household_id, category_id, pattern, priority, is_default, created_at
		FROM categorization_patterns
		WHERE household_id = ?
		ORDER BY priority DESC, is_default DESC, id DESC`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	var patterns []model.Pattern
	for rows.Next() {
		var (
			p       model.Pattern
			created string
		)
		if err := rows.Scan(&p.ID, &p.HouseholdID, &p.CategoryID, &p.Keywords, &p.Priority, &p.IsDefault, &created); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		p.CreatedAt = parseTimestamp(created)
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patterns: %w", err)
	}
	return patterns, nil
}

// SavePattern persists a learned pattern. Saving the same keywords for the
// same category again is a no-op; re-learning for a different category
// updates the existing row instead of accumulating conflicting patterns.
// Returns true when a new pattern row was created.
func (s *SQLiteStorage) SavePattern(ctx context.Context, pattern *model.Pattern) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validatePattern(pattern); err != nil {
		return false, err
	}

	var (
		existingID       int64
		existingCategory int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, category_id FROM categorization_patterns
		WHERE household_id = ? AND pattern = ? AND is_default = 0`,
		pattern.HouseholdID, pattern.Keywords).Scan(&existingID, &existingCategory)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Fall through to insert.
	case err != nil:
		return false, fmt.Errorf("failed to query existing pattern: %w", err)
	default:
		pattern.ID = existingID
		if existingCategory == pattern.CategoryID {
			return false, nil
		}
		if _, err := s.db.ExecContext(ctx, `
			UPDATE categorization_patterns SET category_id = ?, priority = ?
			WHERE id = ?`,
			pattern.CategoryID, pattern.Priority, existingID); err != nil {
			return false, fmt.Errorf("failed to update pattern: %w", err)
		}
		return false, nil
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categorization_patterns (household_id, category_id, pattern, priority, is_default, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		pattern.HouseholdID, pattern.CategoryID, pattern.Keywords, pattern.Priority, formatTimestamp(ts))
	if err != nil {
		return false, fmt.Errorf("failed to insert pattern: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get pattern id: %w", err)
	}
	pattern.ID = id
	pattern.CreatedAt = ts
	return true, nil
}
