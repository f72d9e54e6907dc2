// Package assemble merges a template's declared dependencies with
// caller-supplied tech-stack overrides into one deduplicated manifest.
package assemble

import "github.com/stencilworks/stencil/internal/domain"

// Assemble groups dependencies by name and intersects their constraints.
// Manifest order is first-seen order (template entries before overrides) so
// output is deterministic. Incompatible constraints fail the whole call with
// *domain.DependencyConflictError instead of silently picking a winner.
func Assemble(templateDeps, overrides []domain.Dependency) ([]domain.Dependency, error) {
	var order []string
	grouped := make(map[string][]string)

	add := func(d domain.Dependency) {
		if _, seen := grouped[d.Name]; !seen {
			order = append(order, d.Name)
		}
		grouped[d.Name] = append(grouped[d.Name], d.Constraint)
	}
	for _, d := range templateDeps {
		add(d)
	}
	for _, d := range overrides {
		add(d)
	}

	manifest := make([]domain.Dependency, 0, len(order))
	for _, name := range order {
		merged, err := mergeConstraints(name, grouped[name])
		if err != nil {
			return nil, err
		}
		manifest = append(manifest, domain.Dependency{Name: name, Constraint: merged})
	}
	return manifest, nil
}
