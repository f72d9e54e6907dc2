package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stencilworks/stencil/internal/db"
	"github.com/stencilworks/stencil/internal/domain"
	"github.com/stencilworks/stencil/internal/repository"
)

// allocAttempts bounds how often CreateVersion retries a busy database before
// surfacing a ConflictError.
const allocAttempts = 5

type planService struct {
	projects repository.ProjectRepo
	versions repository.PlanVersionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPlanService(
	projects repository.ProjectRepo,
	versions repository.PlanVersionRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		projects: projects,
		versions: versions,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) CreateVersion(ctx context.Context, in CreateVersionInput) (version *domain.PlanVersion, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": in.ProjectID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-version",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if _, err = s.projects.GetByID(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= allocAttempts; attempt++ {
		version, err = s.createVersionTx(ctx, in)
		if err == nil {
			fields["version"] = version.Version
			return version, nil
		}
		if !isBusy(err) {
			return nil, err
		}
		time.Sleep(time.Millisecond * time.Duration(1<<attempt))
	}
	err = &domain.ConflictError{ProjectID: in.ProjectID, Attempts: allocAttempts}
	return nil, err
}

// createVersionTx performs one allocation attempt: parent validation, number
// allocation, and the insert all share a transaction so a crash or conflict
// never burns a version number.
func (s *planService) createVersionTx(ctx context.Context, in CreateVersionInput) (*domain.PlanVersion, error) {
	var created *domain.PlanVersion
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txVersions := repository.NewSQLitePlanVersionRepo(tx)
		txSeq := repository.NewSQLiteVersionSequenceRepo(tx)

		if in.ParentID != nil {
			parent, err := txVersions.GetByID(ctx, *in.ParentID)
			if err != nil {
				var nf *domain.NotFoundError
				if errors.As(err, &nf) {
					return &domain.ParentNotFoundError{ParentID: *in.ParentID}
				}
				return err
			}
			if parent.ProjectID != in.ProjectID {
				return &domain.ForeignProjectError{
					ParentID:        *in.ParentID,
					ProjectID:       in.ProjectID,
					ParentProjectID: parent.ProjectID,
				}
			}
		}

		number, err := txSeq.NextVersion(ctx, in.ProjectID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		created = &domain.PlanVersion{
			ID:        uuid.New().String(),
			ProjectID: in.ProjectID,
			Version:   number,
			ParentID:  in.ParentID,
			Title:     in.Title,
			Fields:    in.Fields,
			Notes:     in.Notes,
			ChangeLog: in.ChangeLog,
			Status:    domain.VersionDraft,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return txVersions.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *planService) GetVersion(ctx context.Context, id string) (*domain.PlanVersion, error) {
	return s.versions.GetByID(ctx, id)
}

func (s *planService) GetByNumber(ctx context.Context, projectID string, version int) (*domain.PlanVersion, error) {
	return s.versions.GetByVersion(ctx, projectID, version)
}

func (s *planService) GetActive(ctx context.Context, projectID string) (*domain.PlanVersion, error) {
	return s.versions.GetActive(ctx, projectID)
}

// Promote makes the given version the project's single active version,
// archiving whichever version held that role. Promoting the already-active
// version is an idempotent success.
func (s *planService) Promote(ctx context.Context, versionID string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "promote-version",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"version_id": versionID},
		})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txVersions := repository.NewSQLitePlanVersionRepo(tx)

		v, err := txVersions.GetByID(ctx, versionID)
		if err != nil {
			return err
		}
		if v.Status == domain.VersionActive {
			return nil
		}
		if !v.Status.CanTransitionTo(domain.VersionActive) {
			return &domain.InvalidTransitionError{VersionID: versionID, From: v.Status, To: domain.VersionActive}
		}

		if err := txVersions.ArchiveActive(ctx, v.ProjectID); err != nil {
			return err
		}
		return txVersions.UpdateStatus(ctx, versionID, domain.VersionActive)
	})
}

// Archive retires a version. Archived is terminal: archiving an
// already-archived version is an invalid transition, not a no-op, so callers
// notice when promote already archived it for them.
func (s *planService) Archive(ctx context.Context, versionID string) error {
	v, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return err
	}
	if !v.Status.CanTransitionTo(domain.VersionArchived) {
		return &domain.InvalidTransitionError{VersionID: versionID, From: v.Status, To: domain.VersionArchived}
	}
	return s.versions.UpdateStatus(ctx, versionID, domain.VersionArchived)
}

func (s *planService) Lineage(ctx context.Context, projectID string) ([]*domain.PlanTreeNode, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	versions, err := s.versions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return domain.BuildPlanForest(versions), nil
}

// isBusy reports whether an error is a transient SQLite contention failure
// worth retrying.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}
