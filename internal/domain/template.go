package domain

// ManifestEntry is one declared file of a template: a project-root-relative
// path plus its content. Non-binary content may contain {{name}} placeholders
// that are substituted at materialization time.
type ManifestEntry struct {
	Path    string
	Content string
	Binary  bool
}

// Dependency is a named package requirement with an optional version
// constraint (e.g. ">=1.0,<2.0"). An empty constraint means "any version".
type Dependency struct {
	Name       string
	Constraint string
}

// Template is a catalog entry describing a reusable project skeleton.
// Catalog members are validated at registration time: every manifest path is
// sanitized and unique, so downstream consumers never re-validate.
type Template struct {
	ID             string
	Name           string
	Category       string
	Description    string
	TechStack      []string
	Manifest       []ManifestEntry
	Dependencies   []Dependency
	Difficulty     Difficulty
	EstimatedHours int
	Tags           []string
	Public         bool
}

// HasTag reports whether the template carries the given tag (case-sensitive).
func (t *Template) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// TemplateSummary is the listing projection of a Template.
type TemplateSummary struct {
	ID             string
	Name           string
	Category       string
	Difficulty     Difficulty
	EstimatedHours int
	Tags           []string
	Public         bool
}

// GenerationRequest carries everything one materialization needs. It is
// transient: not persisted beyond the operation it parameterizes.
type GenerationRequest struct {
	TemplateID string
	ProjectID  string
	TargetRoot string
	Bindings   map[string]string
	Overrides  []Dependency
}
