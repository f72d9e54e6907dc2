package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/domain"
	"github.com/stencilworks/stencil/internal/repository"
	"github.com/stencilworks/stencil/internal/testutil"
)

func TestPlanVersionRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Plans")
	require.NoError(t, projects.Create(ctx, p))

	v := testutil.NewTestVersion(p.ID, 1,
		testutil.WithVersionTitle("Initial plan"),
		testutil.WithGoals("ship mvp", "gather feedback"),
		testutil.WithChangeLog("created"))
	require.NoError(t, versions.Create(ctx, v))

	got, err := versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProjectID)
	assert.Equal(t, 1, got.Version)
	assert.Nil(t, got.ParentID)
	assert.Equal(t, "Initial plan", got.Title)
	assert.Equal(t, "created", got.ChangeLog)
	assert.Equal(t, domain.VersionDraft, got.Status)

	var goals []string
	require.NoError(t, json.Unmarshal(got.Fields.Goals, &goals))
	assert.Equal(t, []string{"ship mvp", "gather feedback"}, goals)
}

func TestPlanVersionRepo_GetByVersion(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Plans")
	require.NoError(t, projects.Create(ctx, p))
	v := testutil.NewTestVersion(p.ID, 2)
	require.NoError(t, versions.Create(ctx, v))

	got, err := versions.GetByVersion(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = versions.GetByVersion(ctx, p.ID, 99)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestPlanVersionRepo_ParentPersisted(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Lineage")
	require.NoError(t, projects.Create(ctx, p))

	root := testutil.NewTestVersion(p.ID, 1)
	require.NoError(t, versions.Create(ctx, root))
	child := testutil.NewTestVersion(p.ID, 2, testutil.WithVersionParent(root.ID))
	require.NoError(t, versions.Create(ctx, child))

	got, err := versions.GetByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)
}

func TestPlanVersionRepo_ListByProject_OrderedByVersion(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Ordered")
	require.NoError(t, projects.Create(ctx, p))

	// Insert out of order.
	for _, n := range []int{3, 1, 2} {
		require.NoError(t, versions.Create(ctx, testutil.NewTestVersion(p.ID, n)))
	}

	listed, err := versions.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i, v := range listed {
		assert.Equal(t, i+1, v.Version)
	}
}

func TestPlanVersionRepo_GetActive(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Active")
	require.NoError(t, projects.Create(ctx, p))

	_, err := versions.GetActive(ctx, p.ID)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf), "no active version yet")

	v := testutil.NewTestVersion(p.ID, 1, testutil.WithVersionStatus(domain.VersionActive))
	require.NoError(t, versions.Create(ctx, v))

	got, err := versions.GetActive(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
}

func TestPlanVersionRepo_ArchiveActive(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Demote")
	require.NoError(t, projects.Create(ctx, p))

	// No active version: archiving is a no-op, not an error.
	require.NoError(t, versions.ArchiveActive(ctx, p.ID))

	v := testutil.NewTestVersion(p.ID, 1, testutil.WithVersionStatus(domain.VersionActive))
	require.NoError(t, versions.Create(ctx, v))
	require.NoError(t, versions.ArchiveActive(ctx, p.ID))

	got, err := versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VersionArchived, got.Status)
}

func TestPlanVersionRepo_UpdateStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Status")
	require.NoError(t, projects.Create(ctx, p))
	v := testutil.NewTestVersion(p.ID, 1)
	require.NoError(t, versions.Create(ctx, v))

	require.NoError(t, versions.UpdateStatus(ctx, v.ID, domain.VersionActive))
	got, err := versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VersionActive, got.Status)
}

func TestPlanVersionRepo_DeletingProjectCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Cascade")
	require.NoError(t, projects.Create(ctx, p))
	v := testutil.NewTestVersion(p.ID, 1)
	require.NoError(t, versions.Create(ctx, v))

	require.NoError(t, projects.Delete(ctx, p.ID))

	_, err := versions.GetByID(ctx, v.ID)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
}
