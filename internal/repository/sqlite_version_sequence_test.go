package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/repository"
	"github.com/stencilworks/stencil/internal/testutil"
)

func TestVersionSequence_StartsAtOne(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	seqs := repository.NewSQLiteVersionSequenceRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Fresh")
	require.NoError(t, projects.Create(ctx, p))

	n, err := seqs.NextVersion(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVersionSequence_MonotonicallyIncreases(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	seqs := repository.NewSQLiteVersionSequenceRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Mono")
	require.NoError(t, projects.Create(ctx, p))

	for want := 1; want <= 5; want++ {
		n, err := seqs.NextVersion(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestVersionSequence_SeedsPastExistingVersions(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	versions := repository.NewSQLitePlanVersionRepo(database)
	seqs := repository.NewSQLiteVersionSequenceRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Seeded")
	require.NoError(t, projects.Create(ctx, p))

	// Versions written before the allocator row exists (e.g. imported data).
	require.NoError(t, versions.Create(ctx, testutil.NewTestVersion(p.ID, 1)))
	require.NoError(t, versions.Create(ctx, testutil.NewTestVersion(p.ID, 2)))

	n, err := seqs.NextVersion(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestVersionSequence_IndependentPerProject(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	seqs := repository.NewSQLiteVersionSequenceRepo(database)
	ctx := context.Background()

	a := testutil.NewTestProject("Alpha")
	b := testutil.NewTestProject("Beta")
	require.NoError(t, projects.Create(ctx, a))
	require.NoError(t, projects.Create(ctx, b))

	for want := 1; want <= 3; want++ {
		n, err := seqs.NextVersion(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := seqs.NextVersion(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "projects allocate independently")
}
