package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time — should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "plan_versions", "version_sequences", "generation_records"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_short_id",
		"idx_plan_versions_project",
		"idx_plan_versions_parent",
		"idx_plan_versions_active",
		"idx_generation_records_project",
		"idx_generation_records_template",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite uses "memory" journal mode; WAL only applies to file DBs.
	// This test verifies OpenDB issues the PRAGMA (a no-op for :memory:).
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	// In-memory DB reports "memory" — that's expected.
	assert.Equal(t, "memory", mode)
}

func TestMigrate_PlanVersionsStatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p1', 'TST01', 'Test', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Invalid status should fail.
	_, err = db.Exec(`INSERT INTO plan_versions (id, project_id, version, status, created_at, updated_at)
		VALUES ('v1', 'p1', 1, 'INVALID', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid status should be rejected by CHECK constraint")

	// Valid status should succeed.
	_, err = db.Exec(`INSERT INTO plan_versions (id, project_id, version, status, created_at, updated_at)
		VALUES ('v1', 'p1', 1, 'draft', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_PlanVersionsUniquePerProject(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p1', 'UNQ01', 'Test', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO plan_versions (id, project_id, version, status, created_at, updated_at)
		VALUES ('v1', 'p1', 1, 'draft', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Same version number in the same project violates UNIQUE(project_id, version).
	_, err = db.Exec(`INSERT INTO plan_versions (id, project_id, version, status, created_at, updated_at)
		VALUES ('v2', 'p1', 1, 'draft', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "duplicate version number in a project should be rejected")
}

func TestMigrate_SingleActiveVersionPerProject(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p1', 'ACT01', 'Test', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO plan_versions (id, project_id, version, status, created_at, updated_at)
		VALUES ('v1', 'p1', 1, 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO plan_versions (id, project_id, version, status, created_at, updated_at)
		VALUES ('v2', 'p1', 2, 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "second active version should violate the partial unique index")

	// Archived and draft versions are unrestricted.
	_, err = db.Exec(`INSERT INTO plan_versions (id, project_id, version, status, created_at, updated_at)
		VALUES ('v3', 'p1', 3, 'draft', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_GenerationRecordsStatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO generation_records (id, template_id, target_root, status, created_at)
		VALUES ('g1', 'fastapi-backend', '/tmp/out', 'INVALID', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid generation status should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO generation_records (id, template_id, target_root, status, created_at)
		VALUES ('g1', 'fastapi-backend', '/tmp/out', 'succeeded', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_ProjectsShortIDPartialUniqueIndex(t *testing.T) {
	db := openTestDB(t)

	// Empty short IDs should be allowed repeatedly due to partial unique index predicate.
	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p1', '', 'Test 1', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p2', '', 'Test 2', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Non-empty duplicates should violate unique index.
	_, err = db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p3', 'DUP01', 'Test 3', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p4', 'DUP01', 'Test 4', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_BackfillsVersionSequences(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p1', 'SEQ01', 'Test', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO plan_versions (id, project_id, version, status, created_at, updated_at)
		VALUES ('v1', 'p1', 3, 'draft', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Re-running migrations seeds the allocator past the highest assigned number.
	require.NoError(t, Migrate(db))

	var next int
	err = db.QueryRow(`SELECT next_version FROM version_sequences WHERE project_id = 'p1'`).Scan(&next)
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	// Idempotent: another run never lowers the allocator.
	require.NoError(t, Migrate(db))
	err = db.QueryRow(`SELECT next_version FROM version_sequences WHERE project_id = 'p1'`).Scan(&next)
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}
