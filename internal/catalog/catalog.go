// Package catalog holds the read-mostly store of template definitions.
// Registration validates manifests once; readers take no locks beyond a
// short RWMutex hold and may run unbounded in parallel.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/stencilworks/stencil/internal/domain"
	"github.com/stencilworks/stencil/internal/pathsafe"
)

// Filter narrows a List call. Zero values mean "no restriction".
type Filter struct {
	Category   string
	Tag        string
	PublicOnly bool
}

// Catalog is an in-memory template registry keyed by template ID.
type Catalog struct {
	mu        sync.RWMutex
	templates map[string]*domain.Template
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{templates: make(map[string]*domain.Template)}
}

// Register validates and stores a template. Manifest paths are sanitized and
// rewritten to their normalized form; a path failing sandbox rules or two
// entries normalizing to the same path reject the whole template.
func (c *Catalog) Register(t *domain.Template) error {
	if t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	if len(t.Manifest) == 0 {
		return fmt.Errorf("template %q has an empty manifest", t.ID)
	}

	paths := make([]string, len(t.Manifest))
	for i, entry := range t.Manifest {
		paths[i] = entry.Path
	}
	normalized, err := pathsafe.SanitizeAll(paths)
	if err != nil {
		return fmt.Errorf("template %q: %w", t.ID, err)
	}
	for i := range t.Manifest {
		t.Manifest[i].Path = normalized[i]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.templates[t.ID]; exists {
		return fmt.Errorf("template %q is already registered", t.ID)
	}
	c.templates[t.ID] = t
	return nil
}

// List returns summaries of templates matching the filter, ordered by
// category then name for stable output.
func (c *Catalog) List(f Filter) []domain.TemplateSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summaries := make([]domain.TemplateSummary, 0, len(c.templates))
	for _, t := range c.templates {
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if f.Tag != "" && !t.HasTag(f.Tag) {
			continue
		}
		if f.PublicOnly && !t.Public {
			continue
		}
		summaries = append(summaries, domain.TemplateSummary{
			ID:             t.ID,
			Name:           t.Name,
			Category:       t.Category,
			Difficulty:     t.Difficulty,
			EstimatedHours: t.EstimatedHours,
			Tags:           t.Tags,
			Public:         t.Public,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Category != summaries[j].Category {
			return summaries[i].Category < summaries[j].Category
		}
		return summaries[i].Name < summaries[j].Name
	})

	return summaries
}

// Get returns the template with the given ID. Falls back to a
// case-insensitive name match so CLI users can say "FastAPI Backend".
// The returned template is read-only to callers.
func (c *Catalog) Get(id string) (*domain.Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if t, ok := c.templates[id]; ok {
		return t, nil
	}
	for _, t := range c.templates {
		if strings.EqualFold(t.Name, id) {
			return t, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "template", ID: id}
}

// Len returns the number of registered templates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}
