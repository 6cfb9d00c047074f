package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
)

// CreateHousehold creates a household and enrolls its creator as admin in one
// transaction.
func (s *SQLiteStorage) CreateHousehold(ctx context.Context, name, currency, createdBy string) (*model.Household, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateString(createdBy, "createdBy"); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "USD"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO households (name, currency, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		name, currency, createdBy, formatTimestamp(ts), formatTimestamp(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to insert household: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get household id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO household_members (household_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)`,
		id, createdBy, string(model.RoleAdmin), formatTimestamp(ts)); err != nil {
		return nil, fmt.Errorf("failed to enroll creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit household: %w", err)
	}

	return &model.Household{
		ID:         id,
		Name:       name,
		Currency:   currency,
		CreatedBy:  createdBy,
		CycleStart: 1,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}, nil
}

// GetHousehold returns a household by ID.
func (s *SQLiteStorage) GetHousehold(ctx context.Context, id int64) (*model.Household, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var (
		h       model.Household
		created string
		updated string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, currency, budget_month_start_day, created_by, created_at, updated_at
		FROM households
		WHERE id = ?`, id).Scan(&h.ID, &h.Name, &h.Currency, &h.CycleStart, &h.CreatedBy, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: household %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query household: %w", err)
	}

	h.CreatedAt = parseTimestamp(created)
	h.UpdatedAt = parseTimestamp(updated)
	return &h, nil
}

// UpdateHouseholdSettings updates the currency and budget cycle start day.
func (s *SQLiteStorage) UpdateHouseholdSettings(ctx context.Context, id int64, currency string, cycleStart int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if cycleStart < 1 || cycleStart > 31 {
		return fmt.Errorf("%w: budget cycle start day must be between 1 and 31", common.ErrInvalidConfig)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE households
		SET currency = ?, budget_month_start_day = ?, updated_at = ?
		WHERE id = ?`,
		currency, cycleStart, formatTimestamp(now()), id)
	if err != nil {
		return fmt.Errorf("failed to update household settings: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: household %d", common.ErrNotFound, id)
	}
	return nil
}

// AddMember enrolls a user into a household.
func (s *SQLiteStorage) AddMember(ctx context.Context, householdID int64, userID string, role model.MemberRole) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if role == "" {
		role = model.RoleMember
	}

	member, err := s.IsMember(ctx, userID, householdID)
	if err != nil {
		return err
	}
	if member {
		return fmt.Errorf("%w: %s already belongs to household %d", common.ErrDuplicateEntry, userID, householdID)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO household_members (household_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)`,
		householdID, userID, string(role), formatTimestamp(now()))
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// IsMember reports whether the user belongs to the household. Every
// household-scoped operation is gated on this check by its caller.
func (s *SQLiteStorage) IsMember(ctx context.Context, userID string, householdID int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return false, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return false, err
	}

	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM household_members
		WHERE household_id = ? AND user_id = ?`,
		householdID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query membership: %w", err)
	}
	return true, nil
}
