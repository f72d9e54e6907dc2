package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stencilworks/stencil/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestFormatLineage_RendersBranches(t *testing.T) {
	now := time.Now().UTC()
	versions := []*domain.PlanVersion{
		{ID: "v-1", Version: 1, Title: "Initial plan", Status: domain.VersionArchived, CreatedAt: now},
		{ID: "v-2", Version: 2, ParentID: strPtr("v-1"), Title: "Add auth", Status: domain.VersionActive, ChangeLog: "auth flows", CreatedAt: now},
		{ID: "v-3", Version: 3, ParentID: strPtr("v-1"), Title: "Spike async", Status: domain.VersionDraft, CreatedAt: now},
	}

	out := FormatLineage(domain.BuildPlanForest(versions))

	assert.Contains(t, out, "Initial plan")
	assert.Contains(t, out, "Add auth")
	assert.Contains(t, out, "Spike async")
	assert.Contains(t, out, "v1")
	assert.Contains(t, out, "v3")
	// Children are indented under the root with branch connectors.
	assert.Contains(t, out, "├─")
	assert.Contains(t, out, "└─")
	// Changelog becomes a right-aligned badge.
	assert.Contains(t, out, "auth flows")
}

func TestFormatLineage_EmptyForest(t *testing.T) {
	assert.Equal(t, "", FormatLineage(nil))
}

func TestFormatVersionDetail_RendersSections(t *testing.T) {
	now := time.Now().UTC()
	v := &domain.PlanVersion{
		ID:        "v-1",
		Version:   2,
		ParentID:  strPtr("a1b2c3d4-e5f6-7890-abcd-ef1234567890"),
		Title:     "Add auth",
		Status:    domain.VersionDraft,
		Notes:     "carry over from spike",
		ChangeLog: "auth flows",
		Fields: domain.PlanFields{
			Goals:     json.RawMessage(`["ship login","ship signup"]`),
			TechStack: json.RawMessage(`{"backend":"fastapi"}`),
		},
		CreatedAt: now,
	}

	out := FormatVersionDetail(v)

	assert.Contains(t, out, "v2")
	assert.Contains(t, out, "Add auth")
	assert.Contains(t, out, "Draft")
	assert.Contains(t, out, "a1b2c3d4")
	assert.Contains(t, out, "ship login")
	assert.Contains(t, out, "ship signup")
	assert.Contains(t, out, "fastapi")
	assert.Contains(t, out, "carry over from spike")
	// Empty sections are skipped entirely.
	assert.False(t, strings.Contains(out, "RISKS"))
}
