package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillVersionSequences(db); err != nil {
		return fmt.Errorf("backfilling version sequence allocator state: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','paused','done','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS plan_versions (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		version    INTEGER NOT NULL CHECK(version > 0),
		parent_id  TEXT REFERENCES plan_versions(id) ON DELETE SET NULL,
		title      TEXT NOT NULL DEFAULT '',
		fields     TEXT NOT NULL DEFAULT '{}',
		notes      TEXT NOT NULL DEFAULT '',
		change_log TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'draft'
		           CHECK(status IN ('draft','active','archived')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(project_id, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_versions_project ON plan_versions(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_versions_parent ON plan_versions(parent_id)`,
	// Partial index backs the "at most one active per project" invariant.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_plan_versions_active ON plan_versions(project_id) WHERE status = 'active'`,

	`CREATE TABLE IF NOT EXISTS version_sequences (
		project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		next_version INTEGER NOT NULL CHECK(next_version > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS generation_records (
		id          TEXT PRIMARY KEY,
		project_id  TEXT REFERENCES projects(id) ON DELETE SET NULL,
		template_id TEXT NOT NULL,
		target_root TEXT NOT NULL,
		files       TEXT NOT NULL DEFAULT '[]',
		manifest    TEXT NOT NULL DEFAULT '[]',
		status      TEXT NOT NULL
		            CHECK(status IN ('succeeded','failed')),
		fail_reason TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_generation_records_project ON generation_records(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_generation_records_template ON generation_records(template_id)`,
}

// migrateBackfillVersionSequences populates (or raises) next_version for every
// known project using the current max assigned version number, so databases
// created before the allocator table existed keep numbering without gaps or
// duplicates. Idempotent.
func migrateBackfillVersionSequences(db *sql.DB) error {
	ctx := context.Background()

	query := `INSERT INTO version_sequences (project_id, next_version)
		SELECT p.id, COALESCE(MAX(v.version), 0) + 1
		FROM projects p
		LEFT JOIN plan_versions v ON v.project_id = p.id
		GROUP BY p.id
		ON CONFLICT(project_id) DO UPDATE
		SET next_version = MAX(version_sequences.next_version, excluded.next_version)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("upserting version sequence rows: %w", err)
	}

	return nil
}
