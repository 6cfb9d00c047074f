package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/service"
	"github.com/hearthfin/hearth/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "hearth", "hearth.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// currentUser resolves the acting user id from flag, config, or $USER.
func currentUser() (string, error) {
	if user := viper.GetString("user.id"); user != "" {
		return user, nil
	}
	if user := os.Getenv("USER"); user != "" {
		return user, nil
	}
	return "", fmt.Errorf("%w: no user id; set user.id in config or pass --user", common.ErrMissingConfig)
}

// requireHousehold resolves the household and verifies the acting user is a
// member. Every household-scoped command goes through this gate.
func requireHousehold(ctx context.Context, store service.Storage) (householdID int64, userID string, err error) {
	householdID = viper.GetInt64("household.id")
	if householdID <= 0 {
		return 0, "", fmt.Errorf("%w: no household selected; set household.id in config or pass --household", common.ErrMissingConfig)
	}

	userID, err = currentUser()
	if err != nil {
		return 0, "", err
	}

	member, err := store.IsMember(ctx, userID, householdID)
	if err != nil {
		return 0, "", err
	}
	if !member {
		return 0, "", common.NewUserError(
			fmt.Sprintf("You are not a member of household %d.", householdID),
			common.ErrUnauthorized)
	}
	return householdID, userID, nil
}

// parseID parses a positive integer command argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, arg)
	}
	return id, nil
}

// readFileArg loads a file argument into memory.
func readFileArg(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied CLI path
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// formatMoney renders an amount with the household currency code.
func formatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}
