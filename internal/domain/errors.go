package domain

import (
	"fmt"
	"strings"
)

// Path sanitizer rule identifiers, reported inside InvalidPathError.
const (
	PathRuleEmpty          = "empty"
	PathRuleParentSegment  = "parent_segment"
	PathRuleAbsolute       = "absolute"
	PathRuleEscapesSandbox = "escapes_sandbox"
	PathRuleReservedName   = "reserved_name"
	PathRuleTrailingSep    = "trailing_separator"
	PathRuleDuplicate      = "duplicate"
)

// InvalidPathError reports a manifest or request path that failed sandbox
// rules. Always fatal to the single operation, never retried.
type InvalidPathError struct {
	Path string
	Rule string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: violates rule %s", e.Path, e.Rule)
}

// UnboundVariableError reports a template placeholder with no matching
// binding. Materialization never silently emits literal placeholder text.
type UnboundVariableError struct {
	Name string
	Path string
}

func (e *UnboundVariableError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unbound template variable %q in %s", e.Name, e.Path)
	}
	return fmt.Sprintf("unbound template variable %q", e.Name)
}

// DependencyConflictError reports incompatible version constraints for one
// dependency name. The conflicting constraints are carried verbatim so a
// human can resolve them.
type DependencyConflictError struct {
	Name        string
	Constraints []string
}

func (e *DependencyConflictError) Error() string {
	return fmt.Sprintf("conflicting constraints for dependency %q: %s",
		e.Name, strings.Join(e.Constraints, " vs "))
}

// MaterializationError reports a staging or promotion I/O failure. The
// staging area has already been discarded when this is returned, so the
// caller may retry the whole operation.
type MaterializationError struct {
	Op  string
	Err error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("materialization %s: %v", e.Op, e.Err)
}

func (e *MaterializationError) Unwrap() error { return e.Err }

// NotFoundError reports a missing entity by kind and identifier.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ParentNotFoundError reports a createVersion call citing a parent version
// that does not exist.
type ParentNotFoundError struct {
	ParentID string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("parent version not found: %s", e.ParentID)
}

// ForeignProjectError reports a createVersion call citing a parent version
// that belongs to a different project.
type ForeignProjectError struct {
	ParentID        string
	ProjectID       string
	ParentProjectID string
}

func (e *ForeignProjectError) Error() string {
	return fmt.Sprintf("parent version %s belongs to project %s, not %s",
		e.ParentID, e.ParentProjectID, e.ProjectID)
}

// InvalidTransitionError reports a status change the version state machine
// does not permit.
type InvalidTransitionError struct {
	VersionID string
	From      VersionStatus
	To        VersionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("version %s: invalid transition %s -> %s", e.VersionID, e.From, e.To)
}

// ConflictError reports that version-number allocation kept losing the
// per-project race past the retry budget. The whole createVersion call may
// be retried.
type ConflictError struct {
	ProjectID string
	Attempts  int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version allocation for project %s conflicted after %d attempts", e.ProjectID, e.Attempts)
}
