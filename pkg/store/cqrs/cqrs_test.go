package cqrs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/store/cqrs"
	"github.com/surrealdb/surrealcms/pkg/store/memory"
)

func newPair(t *testing.T, mode cqrs.MigrationMode) (*cqrs.CQRSStore, *memory.MemoryStore, *memory.MemoryStore) {
	t.Helper()
	primary := memory.NewMemoryStore()
	secondary := memory.NewMemoryStore()
	return cqrs.NewCQRSStore(primary, secondary, mode), primary, secondary
}

func TestSingleModeUsesPrimary(t *testing.T) {
	ctx := context.Background()
	cs, primary, secondary := newPair(t, cqrs.ModeSingle)

	user := &models.User{Email: "single@example.com", Name: "Single"}
	require.NoError(t, cs.CreateUser(ctx, user))

	onPrimary, err := primary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, onPrimary)

	onSecondary, err := secondary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, onSecondary)

	got, err := cs.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "single@example.com", got.Email)
}

func TestReadOnlyModeRejectsWrites(t *testing.T) {
	ctx := context.Background()
	cs, primary, _ := newPair(t, cqrs.ModeSingle)

	user := &models.User{Email: "frozen@example.com", Name: "Frozen"}
	require.NoError(t, cs.CreateUser(ctx, user))
	require.NoError(t, cs.SetMode(cqrs.ModeReadOnly))

	err := cs.CreateUser(ctx, &models.User{Email: "late@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only mode")

	err = cs.UpdateUser(ctx, user)
	require.Error(t, err)

	err = cs.DeleteUser(ctx, user.ID)
	require.Error(t, err)

	// Reads keep flowing from the primary.
	got, err := cs.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	late, err := primary.GetUserByEmail(ctx, "late@example.com")
	require.NoError(t, err)
	assert.Nil(t, late)
}

func TestSwitchingModeReadsSecondaryWritesPrimary(t *testing.T) {
	ctx := context.Background()
	cs, primary, secondary := newPair(t, cqrs.ModeSwitching)

	id := models.NewUserID()
	require.NoError(t, primary.CreateUser(ctx, &models.User{ID: id, Email: "u@example.com", Name: "Primary Copy"}))
	require.NoError(t, secondary.CreateUser(ctx, &models.User{ID: id, Email: "u@example.com", Name: "Secondary Copy"}))

	got, err := cs.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Secondary Copy", got.Name)

	// Writes still land on the primary.
	project := &models.Project{Name: "P", OwnerID: id}
	require.NoError(t, cs.CreateProject(ctx, project))

	onPrimary, err := primary.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.NotNil(t, onPrimary)

	onSecondary, err := secondary.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, onSecondary)
}

func TestReversedModeWritesSecondary(t *testing.T) {
	ctx := context.Background()
	cs, primary, secondary := newPair(t, cqrs.ModeReversed)

	user := &models.User{Email: "rev@example.com", Name: "Rev"}
	require.NoError(t, cs.CreateUser(ctx, user))

	onSecondary, err := secondary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, onSecondary)

	onPrimary, err := primary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, onPrimary)

	// Reads come from the secondary as well.
	got, err := cs.GetUserByEmail(ctx, "rev@example.com")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSetModeLeavingReadOnly(t *testing.T) {
	cs, _, _ := newPair(t, cqrs.ModeSingle)

	require.NoError(t, cs.SetMode(cqrs.ModeReadOnly))

	err := cs.SetMode(cqrs.ModeReversed)
	require.Error(t, err)
	assert.Equal(t, cqrs.ModeReadOnly, cs.GetMode())

	require.NoError(t, cs.SetMode(cqrs.ModeSwitching))
	assert.Equal(t, cqrs.ModeSwitching, cs.GetMode())

	// From switching, any mode is reachable again.
	require.NoError(t, cs.SetMode(cqrs.ModeReversed))
	require.NoError(t, cs.SetMode(cqrs.ModeSingle))
}

func TestSwapStores(t *testing.T) {
	ctx := context.Background()
	cs, _, secondary := newPair(t, cqrs.ModeSingle)

	user := &models.User{Email: "swap@example.com", Name: "Swap"}
	require.NoError(t, secondary.CreateUser(ctx, user))

	// Before the swap the record is invisible in single mode.
	got, err := cs.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	cs.SwapStores()

	got, err = cs.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestParseMigrationMode(t *testing.T) {
	for _, valid := range []string{"single", "read_only", "switching", "reversed"} {
		mode, err := cqrs.ParseMigrationMode(valid)
		require.NoError(t, err)
		assert.Equal(t, cqrs.MigrationMode(valid), mode)
	}

	mode, err := cqrs.ParseMigrationMode("")
	require.NoError(t, err)
	assert.Equal(t, cqrs.ModeSingle, mode)

	_, err = cqrs.ParseMigrationMode("dual_write")
	require.Error(t, err)
}

func TestSyncStrategyDefaultsToTimestamp(t *testing.T) {
	cs, _, _ := newPair(t, cqrs.ModeSingle)
	assert.Equal(t, cqrs.SyncStrategyTimestamp, cs.GetSyncStrategy())

	cs.SetSyncStrategy(cqrs.SyncStrategyChangeTracking)
	assert.Equal(t, cqrs.SyncStrategyChangeTracking, cs.GetSyncStrategy())
}
