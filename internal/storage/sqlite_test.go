package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth/internal/model"
)

// createTestStorage returns a migrated storage backed by a throwaway database
// file.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// createTestHousehold creates a household owned by "user-1".
func createTestHousehold(t *testing.T, store *SQLiteStorage) *model.Household {
	t.Helper()
	h, err := store.CreateHousehold(context.Background(), "Test Household", "USD", "user-1")
	require.NoError(t, err)
	return h
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	store := createTestStorage(t)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, ExpectedSchemaVersion, version)
}

func TestTimestampFormat_SortsLexicographically(t *testing.T) {
	earlier := formatTimestamp(time.Date(2024, 3, 1, 9, 0, 0, 500, time.UTC))
	later := formatTimestamp(time.Date(2024, 3, 1, 9, 0, 0, 1000, time.UTC))
	require.Less(t, earlier, later)
}
