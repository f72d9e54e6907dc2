package repository

import (
	"context"
	"fmt"

	"github.com/stencilworks/stencil/internal/db"
)

// SQLiteVersionSequenceRepo allocates project-scoped version numbers
// atomically using the version_sequences table.
type SQLiteVersionSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteVersionSequenceRepo creates a new SQLiteVersionSequenceRepo.
func NewSQLiteVersionSequenceRepo(conn db.DBTX) *SQLiteVersionSequenceRepo {
	return &SQLiteVersionSequenceRepo{db: conn}
}

// NextVersion returns the next available version number for a project.
// Allocation is atomic and safe under concurrent writes: the seed tolerates
// an existing row, and the increment reads and bumps in one statement.
func (r *SQLiteVersionSequenceRepo) NextVersion(ctx context.Context, projectID string) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO version_sequences (project_id, next_version)
		SELECT ?, COALESCE(MAX(version), 0) + 1
		FROM plan_versions WHERE project_id = ?`
	if _, err := r.db.ExecContext(ctx, seedQuery, projectID, projectID); err != nil {
		return 0, fmt.Errorf("seeding version sequence for %s: %w", projectID, err)
	}

	var next int
	allocQuery := `UPDATE version_sequences
		SET next_version = next_version + 1
		WHERE project_id = ?
		RETURNING next_version - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, projectID).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next version for project %s: %w", projectID, err)
	}

	return next, nil
}
