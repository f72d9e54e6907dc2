package repository

import (
	"context"

	"github.com/stencilworks/stencil/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type PlanVersionRepo interface {
	Create(ctx context.Context, v *domain.PlanVersion) error
	GetByID(ctx context.Context, id string) (*domain.PlanVersion, error)
	GetByVersion(ctx context.Context, projectID string, version int) (*domain.PlanVersion, error)
	GetActive(ctx context.Context, projectID string) (*domain.PlanVersion, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.PlanVersion, error)
	Update(ctx context.Context, v *domain.PlanVersion) error
	UpdateStatus(ctx context.Context, id string, status domain.VersionStatus) error
	ArchiveActive(ctx context.Context, projectID string) error
}

type VersionSequenceRepo interface {
	NextVersion(ctx context.Context, projectID string) (int, error)
}

type GenerationRecordRepo interface {
	Create(ctx context.Context, rec *domain.GenerationRecord) error
	GetByID(ctx context.Context, id string) (*domain.GenerationRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.GenerationRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.GenerationRecord, error)
}
