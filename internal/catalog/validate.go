package catalog

import (
	"fmt"

	"github.com/stencilworks/stencil/internal/pathsafe"
)

// ValidateSchema checks a TemplateSchema for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateSchema(schema *TemplateSchema) []error {
	var errs []error

	if schema.ID == "" {
		errs = append(errs, fmt.Errorf("template id is required"))
	}
	if schema.Name == "" {
		errs = append(errs, fmt.Errorf("template name is required"))
	}
	if schema.Category == "" {
		errs = append(errs, fmt.Errorf("template category is required"))
	}
	if len(schema.Files) == 0 {
		errs = append(errs, fmt.Errorf("at least one file is required"))
	}

	for i, f := range schema.Files {
		if f.Path == "" {
			errs = append(errs, fmt.Errorf("file[%d]: path is required", i))
			continue
		}
		if f.Content != "" && f.ContentB64 != "" {
			errs = append(errs, fmt.Errorf("file[%d] %q: content and content_b64 are mutually exclusive", i, f.Path))
		}
	}

	// Sandbox rules and duplicate detection happen once, here, so the
	// materializer can assume catalog members are pre-validated.
	paths := make([]string, 0, len(schema.Files))
	for _, f := range schema.Files {
		if f.Path != "" {
			paths = append(paths, f.Path)
		}
	}
	if _, err := pathsafe.SanitizeAll(paths); err != nil {
		errs = append(errs, err)
	}

	for i, d := range schema.Dependencies {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("dependency[%d]: name is required", i))
		}
	}

	if schema.Difficulty != "" && !validDifficulty(schema.Difficulty) {
		errs = append(errs, fmt.Errorf("difficulty %q must be one of beginner, intermediate, advanced", schema.Difficulty))
	}

	return errs
}
