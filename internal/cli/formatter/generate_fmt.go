package formatter

import (
	"fmt"
	"strings"

	"github.com/stencilworks/stencil/internal/domain"
)

// FormatGenerationResult renders the outcome of a successful generation:
// where the project landed, the files written, and the resolved manifest.
func FormatGenerationResult(result *domain.GeneratedProject) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ Project generated") + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Target:"), Bold(result.BaseDir)))

	b.WriteString("\n")
	b.WriteString(Header("files"))
	b.WriteString("\n")
	for _, f := range result.Files {
		b.WriteString(fmt.Sprintf("  %s\n", f))
	}

	if len(result.Manifest) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("resolved dependencies"))
		b.WriteString("\n")
		b.WriteString(FormatDependencies(result.Manifest))
	}

	return b.String()
}

// FormatGenerationHistory renders generation attempts as an aligned table,
// newest first (the repository already orders them that way).
func FormatGenerationHistory(records []*domain.GenerationRecord) string {
	headers := []string{"WHEN", "TEMPLATE", "TARGET", "STATUS", "DETAIL"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		detail := ""
		if r.Status == domain.GenerationFailed {
			detail = StyleRed.Render(truncReason(r.FailReason))
		} else {
			detail = Dim(fmt.Sprintf("%d files", len(r.Files)))
		}
		rows = append(rows, []string{
			Dim(HumanTimestamp(r.CreatedAt)),
			Bold(r.TemplateID),
			r.TargetRoot,
			GenerationStatusPill(r.Status),
			detail,
		})
	}
	return RenderTable(headers, rows)
}

// truncReason keeps failure reasons table-friendly.
func truncReason(reason string) string {
	const max = 60
	if len(reason) <= max {
		return reason
	}
	return reason[:max-1] + "…"
}
