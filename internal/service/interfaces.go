package service

import (
	"context"

	"github.com/stencilworks/stencil/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

// CreateVersionInput carries the caller-controlled parts of a new plan
// version; identifier, number, status, and timestamps are assigned by the
// service.
type CreateVersionInput struct {
	ProjectID string
	ParentID  *string
	Title     string
	Fields    domain.PlanFields
	Notes     string
	ChangeLog string
}

type PlanService interface {
	CreateVersion(ctx context.Context, in CreateVersionInput) (*domain.PlanVersion, error)
	GetVersion(ctx context.Context, id string) (*domain.PlanVersion, error)
	GetByNumber(ctx context.Context, projectID string, version int) (*domain.PlanVersion, error)
	GetActive(ctx context.Context, projectID string) (*domain.PlanVersion, error)
	Promote(ctx context.Context, versionID string) error
	Archive(ctx context.Context, versionID string) error
	Lineage(ctx context.Context, projectID string) ([]*domain.PlanTreeNode, error)
}

type ScaffoldService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationRecord, error)
	History(ctx context.Context, projectID string) ([]*domain.GenerationRecord, error)
	Recent(ctx context.Context, limit int) ([]*domain.GenerationRecord, error)
}
