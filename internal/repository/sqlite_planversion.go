package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stencilworks/stencil/internal/db"
	"github.com/stencilworks/stencil/internal/domain"
)

// planVersionColumns is the canonical SELECT column list for plan_versions.
const planVersionColumns = `id, project_id, version, parent_id, title, fields,
		notes, change_log, status, created_at, updated_at`

// SQLitePlanVersionRepo implements PlanVersionRepo against a db.DBTX, so the
// same implementation serves both plain reads and transaction-scoped writes.
type SQLitePlanVersionRepo struct {
	db db.DBTX
}

// NewSQLitePlanVersionRepo creates a new SQLitePlanVersionRepo.
func NewSQLitePlanVersionRepo(conn db.DBTX) *SQLitePlanVersionRepo {
	return &SQLitePlanVersionRepo{db: conn}
}

func (r *SQLitePlanVersionRepo) Create(ctx context.Context, v *domain.PlanVersion) error {
	fields, err := marshalJSONColumn(v.Fields)
	if err != nil {
		return fmt.Errorf("encoding plan fields: %w", err)
	}

	query := `INSERT INTO plan_versions (id, project_id, version, parent_id, title, fields,
		notes, change_log, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		v.ID,
		v.ProjectID,
		v.Version,
		v.ParentID, // *string: nil becomes SQL NULL
		v.Title,
		fields,
		v.Notes,
		v.ChangeLog,
		string(v.Status),
		v.CreatedAt.Format(time.RFC3339),
		v.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan version: %w", err)
	}
	return nil
}

func (r *SQLitePlanVersionRepo) GetByID(ctx context.Context, id string) (*domain.PlanVersion, error) {
	query := `SELECT ` + planVersionColumns + ` FROM plan_versions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanPlanVersion(row, id)
}

func (r *SQLitePlanVersionRepo) GetByVersion(ctx context.Context, projectID string, version int) (*domain.PlanVersion, error) {
	query := `SELECT ` + planVersionColumns + ` FROM plan_versions WHERE project_id = ? AND version = ?`
	row := r.db.QueryRowContext(ctx, query, projectID, version)
	return scanPlanVersion(row, fmt.Sprintf("%s/v%d", projectID, version))
}

func (r *SQLitePlanVersionRepo) GetActive(ctx context.Context, projectID string) (*domain.PlanVersion, error) {
	query := `SELECT ` + planVersionColumns + ` FROM plan_versions WHERE project_id = ? AND status = 'active'`
	row := r.db.QueryRowContext(ctx, query, projectID)
	return scanPlanVersion(row, projectID)
}

func (r *SQLitePlanVersionRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.PlanVersion, error) {
	query := `SELECT ` + planVersionColumns + ` FROM plan_versions WHERE project_id = ? ORDER BY version`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing plan versions by project: %w", err)
	}
	defer rows.Close()
	return scanPlanVersions(rows)
}

func (r *SQLitePlanVersionRepo) Update(ctx context.Context, v *domain.PlanVersion) error {
	fields, err := marshalJSONColumn(v.Fields)
	if err != nil {
		return fmt.Errorf("encoding plan fields: %w", err)
	}

	query := `UPDATE plan_versions SET title = ?, fields = ?, notes = ?, change_log = ?,
		status = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		v.Title,
		fields,
		v.Notes,
		v.ChangeLog,
		string(v.Status),
		v.UpdatedAt.Format(time.RFC3339),
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan version: %w", err)
	}
	return nil
}

func (r *SQLitePlanVersionRepo) UpdateStatus(ctx context.Context, id string, status domain.VersionStatus) error {
	query := `UPDATE plan_versions SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(status), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating plan version status: %w", err)
	}
	return nil
}

// ArchiveActive demotes the project's current active version, if any. A no-op
// when no version is active.
func (r *SQLitePlanVersionRepo) ArchiveActive(ctx context.Context, projectID string) error {
	query := `UPDATE plan_versions SET status = 'archived', updated_at = ?
		WHERE project_id = ? AND status = 'active'`
	_, err := r.db.ExecContext(ctx, query, nowUTC(), projectID)
	if err != nil {
		return fmt.Errorf("archiving active plan version: %w", err)
	}
	return nil
}

// scanPlanVersion scans a single plan version row from a *sql.Row.
func scanPlanVersion(row *sql.Row, lookup string) (*domain.PlanVersion, error) {
	var v domain.PlanVersion
	var parentID sql.NullString
	var fieldsStr, statusStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&v.ID, &v.ProjectID, &v.Version, &parentID, &v.Title, &fieldsStr,
		&v.Notes, &v.ChangeLog, &statusStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.NotFoundError{Kind: "plan version", ID: lookup}
		}
		return nil, fmt.Errorf("scanning plan version: %w", err)
	}

	if err := finishPlanVersion(&v, parentID, fieldsStr, statusStr, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanPlanVersions(rows *sql.Rows) ([]*domain.PlanVersion, error) {
	var versions []*domain.PlanVersion
	for rows.Next() {
		var v domain.PlanVersion
		var parentID sql.NullString
		var fieldsStr, statusStr, createdAtStr, updatedAtStr string

		err := rows.Scan(
			&v.ID, &v.ProjectID, &v.Version, &parentID, &v.Title, &fieldsStr,
			&v.Notes, &v.ChangeLog, &statusStr,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning plan version row: %w", err)
		}
		if err := finishPlanVersion(&v, parentID, fieldsStr, statusStr, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		versions = append(versions, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan versions: %w", err)
	}
	return versions, nil
}

func finishPlanVersion(v *domain.PlanVersion, parentID sql.NullString, fieldsStr, statusStr, createdAtStr, updatedAtStr string) error {
	if parentID.Valid {
		pid := parentID.String
		v.ParentID = &pid
	}
	if err := unmarshalJSONColumn(fieldsStr, &v.Fields); err != nil {
		return fmt.Errorf("decoding plan fields: %w", err)
	}
	v.Status = domain.VersionStatus(statusStr)

	var parseErr error
	v.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return fmt.Errorf("parsing created_at: %w", parseErr)
	}
	v.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return nil
}
