package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/catalog"
	"github.com/stencilworks/stencil/internal/domain"
	"github.com/stencilworks/stencil/internal/materialize"
	"github.com/stencilworks/stencil/internal/repository"
	"github.com/stencilworks/stencil/internal/service"
	"github.com/stencilworks/stencil/internal/testutil"
)

type scaffoldFixture struct {
	svc     service.ScaffoldService
	records repository.GenerationRecordRepo
	project *domain.Project
}

func newScaffoldFixture(t *testing.T) *scaffoldFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	projRepo := repository.NewSQLiteProjectRepo(database)
	recRepo := repository.NewSQLiteGenerationRecordRepo(database)

	projects := service.NewProjectService(projRepo)
	p := &domain.Project{ShortID: "SCF01", Name: "Scaffolded"}
	require.NoError(t, projects.Create(context.Background(), p))

	cat := catalog.New()
	require.NoError(t, cat.Register(testutil.NewTestTemplate("starter", "Starter",
		testutil.WithTemplateFiles(
			domain.ManifestEntry{Path: "README.md", Content: "# {{project_name}}\n"},
			domain.ManifestEntry{Path: "src/main.py", Content: "APP = \"{{project_name}}\"\n"},
		),
		testutil.WithTemplateDeps(
			domain.Dependency{Name: "fastapi", Constraint: ">=0.100,<1.0"},
			domain.Dependency{Name: "uvicorn", Constraint: ""},
		),
	)))

	return &scaffoldFixture{
		svc:     service.NewScaffoldService(cat, materialize.New(), recRepo),
		records: recRepo,
		project: p,
	}
}

func TestScaffoldService_Generate_Success(t *testing.T) {
	f := newScaffoldFixture(t)
	ctx := context.Background()
	target := filepath.Join(t.TempDir(), "demo")

	rec, err := f.svc.Generate(ctx, domain.GenerationRequest{
		TemplateID: "starter",
		ProjectID:  f.project.ID,
		TargetRoot: target,
		Bindings:   map[string]string{"project_name": "demo"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.GenerationSucceeded, rec.Status)
	assert.Equal(t, []string{"README.md", "src/main.py"}, rec.Files)
	require.Len(t, rec.Manifest, 2)

	readme, err := os.ReadFile(filepath.Join(target, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# demo\n", string(readme))

	// The attempt is in the persisted history.
	history, err := f.svc.History(ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
}

func TestScaffoldService_Generate_OverridesNarrowConstraints(t *testing.T) {
	f := newScaffoldFixture(t)
	target := filepath.Join(t.TempDir(), "demo")

	rec, err := f.svc.Generate(context.Background(), domain.GenerationRequest{
		TemplateID: "starter",
		TargetRoot: target,
		Bindings:   map[string]string{"project_name": "demo"},
		Overrides:  []domain.Dependency{{Name: "fastapi", Constraint: ">=0.110"}},
	})
	require.NoError(t, err)

	byName := map[string]string{}
	for _, d := range rec.Manifest {
		byName[d.Name] = d.Constraint
	}
	assert.Equal(t, ">=0.110,<1.0", byName["fastapi"])
}

func TestScaffoldService_Generate_ConflictRecordedAndReturned(t *testing.T) {
	f := newScaffoldFixture(t)
	ctx := context.Background()
	target := filepath.Join(t.TempDir(), "demo")

	_, err := f.svc.Generate(ctx, domain.GenerationRequest{
		TemplateID: "starter",
		ProjectID:  f.project.ID,
		TargetRoot: target,
		Bindings:   map[string]string{"project_name": "demo"},
		Overrides:  []domain.Dependency{{Name: "fastapi", Constraint: ">=2.0"}},
	})
	var conflict *domain.DependencyConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "fastapi", conflict.Name)

	// Nothing on disk, but the failure is in the history.
	_, statErr := os.Lstat(target)
	assert.True(t, os.IsNotExist(statErr))

	history, err := f.svc.History(ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.GenerationFailed, history[0].Status)
	assert.Contains(t, history[0].FailReason, "fastapi")
}

func TestScaffoldService_Generate_UnboundVariableRecorded(t *testing.T) {
	f := newScaffoldFixture(t)
	ctx := context.Background()
	target := filepath.Join(t.TempDir(), "demo")

	_, err := f.svc.Generate(ctx, domain.GenerationRequest{
		TemplateID: "starter",
		ProjectID:  f.project.ID,
		TargetRoot: target,
		Bindings:   map[string]string{},
	})
	var unbound *domain.UnboundVariableError
	require.True(t, errors.As(err, &unbound))

	history, err := f.svc.History(ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.GenerationFailed, history[0].Status)
	assert.Empty(t, history[0].Files)
}

func TestScaffoldService_Generate_UnknownTemplateLeavesNoRecord(t *testing.T) {
	f := newScaffoldFixture(t)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, domain.GenerationRequest{
		TemplateID: "nope",
		ProjectID:  f.project.ID,
		TargetRoot: filepath.Join(t.TempDir(), "x"),
	})
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))

	history, err := f.svc.History(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestScaffoldService_Recent(t *testing.T) {
	f := newScaffoldFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Generate(ctx, domain.GenerationRequest{
			TemplateID: "starter",
			TargetRoot: filepath.Join(t.TempDir(), "out"),
			Bindings:   map[string]string{"project_name": "demo"},
		})
		require.NoError(t, err)
	}

	recent, err := f.svc.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
