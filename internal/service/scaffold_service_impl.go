package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stencilworks/stencil/internal/assemble"
	"github.com/stencilworks/stencil/internal/catalog"
	"github.com/stencilworks/stencil/internal/domain"
	"github.com/stencilworks/stencil/internal/materialize"
	"github.com/stencilworks/stencil/internal/repository"
)

type scaffoldService struct {
	catalog      *catalog.Catalog
	materializer *materialize.Materializer
	records      repository.GenerationRecordRepo
	observer     UseCaseObserver
}

func NewScaffoldService(
	cat *catalog.Catalog,
	m *materialize.Materializer,
	records repository.GenerationRecordRepo,
	observers ...UseCaseObserver,
) ScaffoldService {
	return &scaffoldService{
		catalog:      cat,
		materializer: m,
		records:      records,
		observer:     useCaseObserverOrNoop(observers),
	}
}

// Generate materializes one template instance and records the attempt.
// Failed attempts are persisted too, with the cause, so `generate history`
// shows what was tried and why it failed; the original error is still
// returned to the caller.
func (s *scaffoldService) Generate(ctx context.Context, req domain.GenerationRequest) (rec *domain.GenerationRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"template": req.TemplateID,
		"target":   req.TargetRoot,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate-project",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	tpl, err := s.catalog.Get(req.TemplateID)
	if err != nil {
		// Nothing was attempted against the filesystem; no record.
		return nil, err
	}

	manifest, assembleErr := assemble.Assemble(tpl.Dependencies, req.Overrides)
	if assembleErr != nil {
		rec = s.recordAttempt(ctx, req, tpl, nil, assembleErr)
		return rec, assembleErr
	}

	result, matErr := s.materializer.Materialize(ctx, tpl, req.TargetRoot, req.Bindings, manifest)
	rec = s.recordAttempt(ctx, req, tpl, result, matErr)
	if matErr != nil {
		return rec, matErr
	}

	fields["file_count"] = len(result.Files)
	fields["dependency_count"] = len(result.Manifest)
	return rec, nil
}

// recordAttempt persists the outcome of one generation. Recording is
// best-effort: a history write failure never masks the generation result.
func (s *scaffoldService) recordAttempt(ctx context.Context, req domain.GenerationRequest, tpl *domain.Template, result *domain.GeneratedProject, genErr error) *domain.GenerationRecord {
	rec := &domain.GenerationRecord{
		ID:         uuid.New().String(),
		ProjectID:  req.ProjectID,
		TemplateID: tpl.ID,
		TargetRoot: req.TargetRoot,
		Status:     domain.GenerationSucceeded,
		CreatedAt:  time.Now().UTC(),
	}
	if result != nil {
		rec.TargetRoot = result.BaseDir
		rec.Files = result.Files
		rec.Manifest = result.Manifest
	}
	if genErr != nil {
		rec.Status = domain.GenerationFailed
		rec.FailReason = genErr.Error()
		rec.Files = nil
	}

	_ = s.records.Create(ctx, rec)
	return rec
}

func (s *scaffoldService) History(ctx context.Context, projectID string) ([]*domain.GenerationRecord, error) {
	return s.records.ListByProject(ctx, projectID)
}

func (s *scaffoldService) Recent(ctx context.Context, limit int) ([]*domain.GenerationRecord, error) {
	return s.records.ListRecent(ctx, limit)
}
