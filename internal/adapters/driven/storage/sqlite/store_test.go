package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(dir, DatabaseFile)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "path", "to", "db")
	store, err := NewStore(nested)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nested)
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"local_users", "audit_log"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = store.UserStore().UpdateOrCreateByEmail(ctx, "a@example.com", domain.LocalUserFields{FirstName: "Ann"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	user, err := store.UserStore().GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.FirstName)
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.up.sql":   {Data: []byte("SELECT 1;")},
		"002_second.up.sql":  {Data: []byte("SELECT 1;")},
		"001_initial.up.sql": {Data: []byte("SELECT 1;")},
		"notes.up.sql":       {Data: []byte("SELECT 1;")},
		"003_third.down.sql": {Data: []byte("SELECT 1;")},
	}

	pending, err := pendingMigrations(fsys, 1)
	require.NoError(t, err)
	assert.Equal(t, []migration{
		{version: 2, name: "002_second.up.sql"},
		{version: 10, name: "010_later.up.sql"},
	}, pending)
}

func TestMigrate_FailedMigrationRollsBack(t *testing.T) {
	store := setupTestStore(t)
	fsys := fstest.MapFS{
		"002_broken.up.sql": {Data: []byte(
			"CREATE TABLE half_done (id TEXT);\nINSERT INTO nowhere VALUES (1);",
		)},
	}

	err := store.migrate(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.up.sql")

	var n int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='half_done'",
	).Scan(&n))
	assert.Zero(t, n)
}

// ==================== Local User Tests ====================

func TestUserStore_CreateThenUpdate(t *testing.T) {
	users := setupTestStore(t).UserStore()
	ctx := context.Background()

	created, isNew, err := users.UpdateOrCreateByEmail(ctx, "Jane@Example.com", domain.LocalUserFields{
		FirstName: "Jane", LastName: "Doe", DateOfBirth: "1990-03-04", IsActive: true,
	})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Jane@Example.com", created.Email)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsLinked())

	updated, isNew, err := users.UpdateOrCreateByEmail(ctx, "jane@example.com", domain.LocalUserFields{
		FirstName: "Janet", LastName: "Doe",
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.False(t, updated.IsActive)
}

func TestUserStore_EmptyEmail(t *testing.T) {
	users := setupTestStore(t).UserStore()

	_, _, err := users.UpdateOrCreateByEmail(context.Background(), "  ", domain.LocalUserFields{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserStore_SaveLinkage(t *testing.T) {
	users := setupTestStore(t).UserStore()
	ctx := context.Background()

	user, _, err := users.UpdateOrCreateByEmail(ctx, "jane@example.com", domain.LocalUserFields{FirstName: "Jane"})
	require.NoError(t, err)

	syncedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err = users.SaveLinkage(ctx, user.ID, domain.JustGoLink{
		MemberID: "guid-1", MemberDocID: "42", MID: "M1001", SyncedAt: syncedAt,
	})
	require.NoError(t, err)

	got, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLinked())
	assert.Equal(t, "guid-1", got.JustGoMemberID)
	assert.Equal(t, "42", got.JustGoMemberDocID)
	assert.Equal(t, "M1001", got.JustGoMID)
	assert.True(t, syncedAt.Equal(got.JustGoSyncedAt))
}

func TestUserStore_SaveLinkageUnknownUser(t *testing.T) {
	users := setupTestStore(t).UserStore()

	err := users.SaveLinkage(context.Background(), "missing", domain.JustGoLink{MemberID: "guid-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserStore_NotFound(t *testing.T) {
	users := setupTestStore(t).UserStore()
	ctx := context.Background()

	_, err := users.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserStore_ListOrderedByEmail(t *testing.T) {
	users := setupTestStore(t).UserStore()
	ctx := context.Background()

	for _, email := range []string{"carol@example.com", "Alice@example.com", "bob@example.com"} {
		_, _, err := users.UpdateOrCreateByEmail(ctx, email, domain.LocalUserFields{})
		require.NoError(t, err)
	}

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alice@example.com", list[0].Email)
	assert.Equal(t, "bob@example.com", list[1].Email)
	assert.Equal(t, "carol@example.com", list[2].Email)
}

func TestStore_SetStaff(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, _, err := store.UserStore().UpdateOrCreateByEmail(ctx, "admin@example.com", domain.LocalUserFields{})
	require.NoError(t, err)

	require.NoError(t, store.SetStaff(ctx, "ADMIN@example.com", true))
	user, err := store.UserStore().GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsStaff)

	assert.ErrorIs(t, store.SetStaff(ctx, "nobody@example.com", true), domain.ErrNotFound)
}

// ==================== Audit Log Tests ====================

func TestAuditLogger_RecordAndRecent(t *testing.T) {
	audit := setupTestStore(t).AuditLogger()
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	actor := domain.Actor{ID: "u1", Username: "admin", IsStaff: true}

	require.NoError(t, audit.Record(ctx, domain.AuditEntry{
		Actor: actor, Action: "create_member_profile", Target: "jane@example.com",
		Justification: "walk-in registration", After: json.RawMessage(`{"memberId":"guid-1"}`),
		Success: true, Timestamp: base,
	}))
	require.NoError(t, audit.Record(ctx, domain.AuditEntry{
		Actor: actor, Action: "update_member_profile", Target: "guid-1",
		Justification: "typo", Before: json.RawMessage(`{"firstName":"Jnae"}`),
		Error: "boom", Timestamp: base.Add(time.Minute),
	}))

	entries, err := audit.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	latest := entries[0]
	assert.NotEmpty(t, latest.ID)
	assert.Equal(t, "update_member_profile", latest.Action)
	assert.Equal(t, actor, latest.Actor)
	assert.False(t, latest.Success)
	assert.Equal(t, "boom", latest.Error)
	assert.JSONEq(t, `{"firstName":"Jnae"}`, string(latest.Before))
	assert.Nil(t, latest.After)

	first := entries[1]
	assert.True(t, first.Success)
	assert.JSONEq(t, `{"memberId":"guid-1"}`, string(first.After))
	assert.True(t, base.Equal(first.Timestamp))

	limited, err := audit.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, latest.ID, limited[0].ID)
}

func TestAuditLogger_KeepsProvidedID(t *testing.T) {
	audit := setupTestStore(t).AuditLogger()
	ctx := context.Background()

	require.NoError(t, audit.Record(ctx, domain.AuditEntry{ID: "fixed", Action: "sync_local_to_justgo"}))

	entries, err := audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fixed", entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}
