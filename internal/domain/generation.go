package domain

import "time"

// GeneratedProject is the materialized result of one template instance:
// the base directory, the final sanitized relative paths written under it,
// and the resolved dependency manifest. Immutable after creation.
type GeneratedProject struct {
	BaseDir  string
	Files    []string
	Manifest []Dependency
}

// GenerationRecord is the persisted trace of one materialization attempt,
// written for failures as well as successes so the product can show a
// per-project generation history.
type GenerationRecord struct {
	ID         string
	ProjectID  string
	TemplateID string
	TargetRoot string
	Files      []string
	Manifest   []Dependency
	Status     GenerationStatus
	FailReason string
	CreatedAt  time.Time
}
