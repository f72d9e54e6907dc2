package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/domain"
	"github.com/stencilworks/stencil/internal/repository"
	"github.com/stencilworks/stencil/internal/testutil"
)

func TestProjectRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Demo Service", testutil.WithDescription("demo"))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.ShortID, got.ShortID)
	assert.Equal(t, "Demo Service", got.Name)
	assert.Equal(t, "demo", got.Description)
	assert.Equal(t, domain.ProjectActive, got.Status)
	assert.Nil(t, got.ArchivedAt)
}

func TestProjectRepo_GetByShortID_CaseInsensitive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Demo", testutil.WithShortID("DEM01"))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByShortID(ctx, "dem01")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)

	_, err := repo.GetByID(context.Background(), "nope")
	require.Error(t, err)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "project", nf.Kind)
	assert.Equal(t, "nope", nf.ID)
}

func TestProjectRepo_List_ExcludesArchivedByDefault(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()

	active := testutil.NewTestProject("Active")
	archived := testutil.NewTestProject("Archived")
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, archived))
	require.NoError(t, repo.Archive(ctx, archived.ID))

	visible, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProjectRepo_ArchiveAndUnarchive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Cycle")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Archive(ctx, p.ID))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectArchived, got.Status)
	assert.NotNil(t, got.ArchivedAt)

	require.NoError(t, repo.Unarchive(ctx, p.ID))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, got.Status)
	assert.Nil(t, got.ArchivedAt)
}

func TestProjectRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Before")
	require.NoError(t, repo.Create(ctx, p))

	p.Name = "After"
	p.Description = "renamed"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, "renamed", got.Description)
}

func TestProjectRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Gone")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestProjectRepo_DuplicateShortIDRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("One", testutil.WithShortID("DUP01"))))
	err := repo.Create(ctx, testutil.NewTestProject("Two", testutil.WithShortID("DUP01")))
	assert.Error(t, err)
}
