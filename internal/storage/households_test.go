package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/model"
)

func TestCreateHousehold_EnrollsCreatorAsAdmin(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	h, err := store.CreateHousehold(ctx, "Smith Family", "EUR", "alice")
	require.NoError(t, err)
	assert.Positive(t, h.ID)
	assert.Equal(t, "EUR", h.Currency)
	assert.Equal(t, 1, h.CycleStart)

	member, err := store.IsMember(ctx, "alice", h.ID)
	require.NoError(t, err)
	assert.True(t, member)

	stranger, err := store.IsMember(ctx, "bob", h.ID)
	require.NoError(t, err)
	assert.False(t, stranger)
}

func TestCreateHousehold_DefaultsCurrency(t *testing.T) {
	store := createTestStorage(t)

	h, err := store.CreateHousehold(context.Background(), "Defaults", "", "alice")
	require.NoError(t, err)
	assert.Equal(t, "USD", h.Currency)
}

func TestAddMember(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	require.NoError(t, store.AddMember(ctx, h.ID, "bob", model.RoleMember))

	member, err := store.IsMember(ctx, "bob", h.ID)
	require.NoError(t, err)
	assert.True(t, member)

	err = store.AddMember(ctx, h.ID, "bob", model.RoleMember)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestUpdateHouseholdSettings(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	h := createTestHousehold(t, store)

	require.NoError(t, store.UpdateHouseholdSettings(ctx, h.ID, "SEK", 25))

	got, err := store.GetHousehold(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "SEK", got.Currency)
	assert.Equal(t, 25, got.CycleStart)
}

func TestUpdateHouseholdSettings_RejectsInvalidCycleStart(t *testing.T) {
	store := createTestStorage(t)
	h := createTestHousehold(t, store)

	for _, day := range []int{0, 32, -5} {
		err := store.UpdateHouseholdSettings(context.Background(), h.ID, "USD", day)
		assert.ErrorIs(t, err, common.ErrInvalidConfig, "day %d", day)
	}
}

func TestGetHousehold_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetHousehold(context.Background(), 9999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
