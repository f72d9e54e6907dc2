package formatter

import (
	"fmt"
	"strings"

	"github.com/stencilworks/stencil/internal/domain"
)

// FormatTemplateList renders template summaries as an aligned table.
func FormatTemplateList(summaries []domain.TemplateSummary) string {
	headers := []string{"ID", "NAME", "CATEGORY", "DIFFICULTY", "EST", "TAGS"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			Bold(s.ID),
			s.Name,
			CategoryBadge(s.Category),
			DifficultyBadge(s.Difficulty),
			Dim(FormatHours(s.EstimatedHours)),
			Dim(strings.Join(s.Tags, ", ")),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTemplateInspect renders the full template detail view, including
// the manifest layout and the declared dependency set.
func FormatTemplateInspect(t *domain.Template) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s — %s", t.ID, t.Name)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Category:"), CategoryBadge(t.Category)))
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Difficulty:"), DifficultyBadge(t.Difficulty)))
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Estimate:"), FormatHours(t.EstimatedHours)))
	if len(t.TechStack) > 0 {
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Stack:"), strings.Join(t.TechStack, ", ")))
	}
	if len(t.Tags) > 0 {
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Tags:"), strings.Join(t.Tags, ", ")))
	}
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}

	b.WriteString("\n")
	b.WriteString(Header("files"))
	b.WriteString("\n")
	for _, entry := range t.Manifest {
		marker := ""
		if entry.Binary {
			marker = "  " + Dim("(binary)")
		}
		b.WriteString(fmt.Sprintf("  %s%s\n", entry.Path, marker))
	}

	if len(t.Dependencies) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("dependencies"))
		b.WriteString("\n")
		b.WriteString(FormatDependencies(t.Dependencies))
	}

	return b.String()
}

// FormatDependencies renders a dependency manifest as name/constraint lines.
func FormatDependencies(deps []domain.Dependency) string {
	var b strings.Builder
	for _, d := range deps {
		constraint := d.Constraint
		if constraint == "" {
			constraint = "any"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", Bold(d.Name), Dim(constraint)))
	}
	return b.String()
}
