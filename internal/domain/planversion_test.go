package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func version(id string, n int, parent *string) *PlanVersion {
	return &PlanVersion{
		ID:        id,
		ProjectID: "p1",
		Version:   n,
		ParentID:  parent,
		Title:     id,
		Status:    VersionDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestBuildPlanForest_SingleChain(t *testing.T) {
	v1 := version("v1", 1, nil)
	v2 := version("v2", 2, &v1.ID)
	v3 := version("v3", 3, &v2.ID)

	roots := BuildPlanForest([]*PlanVersion{v3, v1, v2})
	require.Len(t, roots, 1)
	assert.Equal(t, "v1", roots[0].Version.ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "v2", roots[0].Children[0].Version.ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "v3", roots[0].Children[0].Children[0].Version.ID)
}

func TestBuildPlanForest_BranchesOrderedByVersion(t *testing.T) {
	v1 := version("v1", 1, nil)
	v2 := version("v2", 2, &v1.ID)
	v3 := version("v3", 3, &v1.ID)
	v4 := version("v4", 4, nil)

	roots := BuildPlanForest([]*PlanVersion{v4, v3, v2, v1})
	require.Len(t, roots, 2)
	assert.Equal(t, "v1", roots[0].Version.ID)
	assert.Equal(t, "v4", roots[1].Version.ID)

	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, 2, roots[0].Children[0].Version.Version)
	assert.Equal(t, 3, roots[0].Children[1].Version.Version)
}

func TestBuildPlanForest_MissingParentBecomesRoot(t *testing.T) {
	missing := "gone"
	v1 := version("v1", 1, &missing)

	roots := BuildPlanForest([]*PlanVersion{v1})
	require.Len(t, roots, 1)
	assert.Equal(t, "v1", roots[0].Version.ID)
}

func TestBuildPlanForest_EveryVersionAppearsOnce(t *testing.T) {
	v1 := version("v1", 1, nil)
	v2 := version("v2", 2, &v1.ID)
	v3 := version("v3", 3, &v2.ID)
	v4 := version("v4", 4, &v1.ID)

	roots := BuildPlanForest([]*PlanVersion{v1, v2, v3, v4})

	seen := map[string]int{}
	var walk func(ns []*PlanTreeNode)
	walk = func(ns []*PlanTreeNode) {
		for _, n := range ns {
			seen[n.Version.ID]++
			walk(n.Children)
		}
	}
	walk(roots)

	assert.Len(t, seen, 4)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "version %s appeared %d times", id, count)
	}
}

func TestVersionStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to VersionStatus
		want     bool
	}{
		{VersionDraft, VersionActive, true},
		{VersionDraft, VersionArchived, true},
		{VersionActive, VersionArchived, true},
		{VersionActive, VersionDraft, false},
		{VersionArchived, VersionActive, false},
		{VersionArchived, VersionDraft, false},
		{VersionArchived, VersionArchived, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
