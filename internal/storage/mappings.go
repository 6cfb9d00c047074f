package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
)

const mappingColumns = `id, household_id, name, date_column, description_column,
	amount_column, type_column, balance_column, date_format, delimiter, has_header, created_at`

// SaveMapping persists a named column mapping, replacing an existing mapping
// with the same name so re-importing from the same bank updates in place.
func (s *SQLiteStorage) SaveMapping(ctx context.Context, mapping *model.CSVMapping) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMapping(mapping); err != nil {
		return err
	}

	if mapping.DateFormat == "" {
		mapping.DateFormat = "YYYY-MM-DD"
	}
	if mapping.Delimiter == "" {
		mapping.Delimiter = ","
	}

	var existingID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM csv_mappings WHERE household_id = ? AND name = ?`,
		mapping.HouseholdID, mapping.Name).Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		ts := now()
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO csv_mappings (household_id, name, date_column, description_column,
				amount_column, type_column, balance_column, date_format, delimiter, has_header, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			mapping.HouseholdID,
			mapping.Name,
			mapping.DateColumn,
			mapping.DescriptionColumn,
			mapping.AmountColumn,
			mapping.TypeColumn,
			mapping.BalanceColumn,
			mapping.DateFormat,
			mapping.Delimiter,
			mapping.HasHeader,
			formatTimestamp(ts),
		)
		if err != nil {
			return fmt.Errorf("failed to insert mapping: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get mapping id: %w", err)
		}
		mapping.ID = id
		mapping.CreatedAt = ts
		return nil
	case err != nil:
		return fmt.Errorf("failed to query existing mapping: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE csv_mappings
		SET date_column = ?, description_column = ?, amount_column = ?,
			type_column = ?, balance_column = ?, date_format = ?, delimiter = ?, has_header = ?
		WHERE id = ?`,
		mapping.DateColumn,
		mapping.DescriptionColumn,
		mapping.AmountColumn,
		mapping.TypeColumn,
		mapping.BalanceColumn,
		mapping.DateFormat,
		mapping.Delimiter,
		mapping.HasHeader,
		existingID,
	); err != nil {
		return fmt.Errorf("failed to update mapping: %w", err)
	}
	mapping.ID = existingID
	return nil
}

// ListMappings returns a household's saved mappings, newest first.
func (s *SQLiteStorage) ListMappings(ctx context.Context, householdID int64) ([]model.CSVMapping, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+mappingColumns+`
		FROM csv_mappings
		WHERE household_id = ?
		ORDER BY created_at DESC, id DESC`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	var mappings []model.CSVMapping
	for rows.Next() {
		mapping, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, *mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mappings: %w", err)
	}
	return mappings, nil
}

// GetMappingByName returns one saved mapping by its household-scoped name.
func (s *SQLiteStorage) GetMappingByName(ctx context.Context, householdID int64, name string) (*model.CSVMapping, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(householdID, "householdID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+mappingColumns+`
		FROM csv_mappings
		WHERE household_id = ? AND name = ?`, householdID, name)

	mapping, err := scanMapping(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: mapping %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mapping: %w", err)
	}
	return mapping, nil
}

func scanMapping(row scanner) (*model.CSVMapping, error) {
	var (
		mapping model.CSVMapping
		created string
	)
	err := row.Scan(
		&mapping.ID,
		&mapping.HouseholdID,
		&mapping.Name,
		&mapping.DateColumn,
		&mapping.DescriptionColumn,
		&mapping.AmountColumn,
		&mapping.TypeColumn,
		&mapping.BalanceColumn,
		&mapping.DateFormat,
		&mapping.Delimiter,
		&mapping.HasHeader,
		&created,
	)
	if err != nil {
		return nil, err
	}
	mapping.CreatedAt = parseTimestamp(created)
	return &mapping, nil
}
