package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stencilworks/stencil/internal/domain"
)

const generationColumns = `id, project_id, template_id, target_root, files, manifest, status, fail_reason, created_at`

// SQLiteGenerationRecordRepo implements GenerationRecordRepo using a SQLite database.
type SQLiteGenerationRecordRepo struct {
	db *sql.DB
}

// NewSQLiteGenerationRecordRepo creates a new SQLiteGenerationRecordRepo.
func NewSQLiteGenerationRecordRepo(db *sql.DB) *SQLiteGenerationRecordRepo {
	return &SQLiteGenerationRecordRepo{db: db}
}

func (r *SQLiteGenerationRecordRepo) Create(ctx context.Context, rec *domain.GenerationRecord) error {
	files, err := marshalJSONColumn(rec.Files)
	if err != nil {
		return fmt.Errorf("encoding generation files: %w", err)
	}
	manifest, err := marshalJSONColumn(rec.Manifest)
	if err != nil {
		return fmt.Errorf("encoding generation manifest: %w", err)
	}

	var projectID any
	if rec.ProjectID != "" {
		projectID = rec.ProjectID
	}

	query := `INSERT INTO generation_records (id, project_id, template_id, target_root, files, manifest, status, fail_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		projectID,
		rec.TemplateID,
		rec.TargetRoot,
		files,
		manifest,
		string(rec.Status),
		rec.FailReason,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting generation record: %w", err)
	}
	return nil
}

func (r *SQLiteGenerationRecordRepo) GetByID(ctx context.Context, id string) (*domain.GenerationRecord, error) {
	query := `SELECT ` + generationColumns + ` FROM generation_records WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("loading generation record: %w", err)
	}
	defer rows.Close()

	recs, err := scanGenerationRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &domain.NotFoundError{Kind: "generation record", ID: id}
	}
	return recs[0], nil
}

func (r *SQLiteGenerationRecordRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.GenerationRecord, error) {
	query := `SELECT ` + generationColumns + ` FROM generation_records WHERE project_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing generation records by project: %w", err)
	}
	defer rows.Close()
	return scanGenerationRecords(rows)
}

func (r *SQLiteGenerationRecordRepo) ListRecent(ctx context.Context, limit int) ([]*domain.GenerationRecord, error) {
	query := `SELECT ` + generationColumns + ` FROM generation_records ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent generation records: %w", err)
	}
	defer rows.Close()
	return scanGenerationRecords(rows)
}

func scanGenerationRecords(rows *sql.Rows) ([]*domain.GenerationRecord, error) {
	var records []*domain.GenerationRecord
	for rows.Next() {
		var rec domain.GenerationRecord
		var projectID sql.NullString
		var filesStr, manifestStr, statusStr, createdAtStr string

		err := rows.Scan(
			&rec.ID, &projectID, &rec.TemplateID, &rec.TargetRoot,
			&filesStr, &manifestStr, &statusStr, &rec.FailReason,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning generation record row: %w", err)
		}

		if projectID.Valid {
			rec.ProjectID = projectID.String
		}
		if err := unmarshalJSONColumn(filesStr, &rec.Files); err != nil {
			return nil, fmt.Errorf("decoding generation files: %w", err)
		}
		if err := unmarshalJSONColumn(manifestStr, &rec.Manifest); err != nil {
			return nil, fmt.Errorf("decoding generation manifest: %w", err)
		}
		rec.Status = domain.GenerationStatus(statusStr)

		var parseErr error
		rec.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}

		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating generation records: %w", err)
	}
	return records, nil
}
