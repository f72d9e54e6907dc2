package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/stencilworks/stencil/internal/domain"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanVersion options
type VersionOption func(*domain.PlanVersion)

func WithVersionParent(id string) VersionOption {
	return func(v *domain.PlanVersion) {
		v.ParentID = &id
	}
}

func WithVersionStatus(s domain.VersionStatus) VersionOption {
	return func(v *domain.PlanVersion) {
		v.Status = s
	}
}

func WithVersionTitle(title string) VersionOption {
	return func(v *domain.PlanVersion) {
		v.Title = title
	}
}

func WithGoals(goals ...string) VersionOption {
	return func(v *domain.PlanVersion) {
		raw, _ := json.Marshal(goals)
		v.Fields.Goals = raw
	}
}

func WithChangeLog(log string) VersionOption {
	return func(v *domain.PlanVersion) {
		v.ChangeLog = log
	}
}

func NewTestVersion(projectID string, version int, opts ...VersionOption) *domain.PlanVersion {
	now := time.Now().UTC()
	v := &domain.PlanVersion{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Version:   version,
		Title:     fmt.Sprintf("Plan v%d", version),
		Status:    domain.VersionDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Template options
type TemplateOption func(*domain.Template)

func WithTemplateFiles(entries ...domain.ManifestEntry) TemplateOption {
	return func(tpl *domain.Template) {
		tpl.Manifest = entries
	}
}

func WithTemplateDeps(deps ...domain.Dependency) TemplateOption {
	return func(tpl *domain.Template) {
		tpl.Dependencies = deps
	}
}

func WithTemplateTags(tags ...string) TemplateOption {
	return func(tpl *domain.Template) {
		tpl.Tags = tags
	}
}

func NewTestTemplate(id, name string, opts ...TemplateOption) *domain.Template {
	tpl := &domain.Template{
		ID:         id,
		Name:       name,
		Category:   "test",
		Difficulty: domain.DifficultyIntermediate,
		Public:     true,
		Manifest: []domain.ManifestEntry{
			{Path: "README.md", Content: "# {{project_name}}\n"},
		},
	}
	for _, opt := range opts {
		opt(tpl)
	}
	return tpl
}

// GenerationRecord options
type RecordOption func(*domain.GenerationRecord)

func WithRecordStatus(s domain.GenerationStatus) RecordOption {
	return func(r *domain.GenerationRecord) {
		r.Status = s
	}
}

func WithFailReason(reason string) RecordOption {
	return func(r *domain.GenerationRecord) {
		r.Status = domain.GenerationFailed
		r.FailReason = reason
	}
}

func NewTestRecord(projectID, templateID, targetRoot string, opts ...RecordOption) *domain.GenerationRecord {
	r := &domain.GenerationRecord{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		TemplateID: templateID,
		TargetRoot: targetRoot,
		Files:      []string{"README.md"},
		Status:     domain.GenerationSucceeded,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
