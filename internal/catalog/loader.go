package catalog

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stencilworks/stencil/internal/domain"
)

// LoadSchema reads and parses a template JSON file.
func LoadSchema(path string) (*TemplateSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema TemplateSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &schema, nil
}

// ToTemplate converts a validated schema into the domain template. Base64
// entries are decoded and flagged binary; defaults are applied for
// difficulty and visibility.
func ToTemplate(schema *TemplateSchema) (*domain.Template, error) {
	manifest := make([]domain.ManifestEntry, 0, len(schema.Files))
	for _, f := range schema.Files {
		entry := domain.ManifestEntry{Path: f.Path, Content: f.Content}
		if f.ContentB64 != "" {
			raw, err := base64.StdEncoding.DecodeString(f.ContentB64)
			if err != nil {
				return nil, fmt.Errorf("decoding binary content for %q: %w", f.Path, err)
			}
			entry.Content = string(raw)
			entry.Binary = true
		}
		manifest = append(manifest, entry)
	}

	deps := make([]domain.Dependency, 0, len(schema.Dependencies))
	for _, d := range schema.Dependencies {
		deps = append(deps, domain.Dependency{Name: d.Name, Constraint: d.Constraint})
	}

	public := true
	if schema.Public != nil {
		public = *schema.Public
	}

	return &domain.Template{
		ID:             schema.ID,
		Name:           schema.Name,
		Category:       schema.Category,
		Description:    schema.Description,
		TechStack:      schema.TechStack,
		Manifest:       manifest,
		Dependencies:   deps,
		Difficulty:     domain.Difficulty(domain.CoalesceStr(schema.Difficulty, string(domain.DifficultyIntermediate))),
		EstimatedHours: schema.EstimatedHours,
		Tags:           schema.Tags,
		Public:         public,
	}, nil
}

// LoadDir loads every *.json template under dir into a fresh catalog.
// Files that fail to parse, validate, or register are reported in the
// returned error slice; valid templates are still registered.
func LoadDir(dir string) (*Catalog, []error) {
	c := New()

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return c, []error{err}
	}

	var errs []error
	for _, file := range files {
		schema, err := LoadSchema(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(file), err))
			continue
		}
		if verrs := ValidateSchema(schema); len(verrs) > 0 {
			for _, verr := range verrs {
				errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(file), verr))
			}
			continue
		}
		tpl, err := ToTemplate(schema)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(file), err))
			continue
		}
		if err := c.Register(tpl); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(file), err))
		}
	}

	return c, errs
}

func validDifficulty(s string) bool {
	return domain.ValidDifficulties[s]
}
