package formatter

import (
	"fmt"
	"strings"

	"github.com/stencilworks/stencil/internal/domain"
)

// FormatProjectList renders projects as an aligned table.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "STATUS", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			Bold(p.DisplayID()),
			p.Name,
			StatusPill(p.Status),
			Dim(HumanDate(p.CreatedAt)),
		})
	}
	return RenderTable(headers, rows)
}

// ProjectInspectData bundles everything the project inspect view shows.
type ProjectInspectData struct {
	Project  *domain.Project
	Versions []*domain.PlanVersion
	Records  []*domain.GenerationRecord
}

// FormatProjectInspect renders the full project detail view.
func FormatProjectInspect(data ProjectInspectData) string {
	p := data.Project

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s — %s", p.DisplayID(), p.Name)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Status:"), StatusPill(p.Status)))
	if p.Description != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("About:"), p.Description))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Created:"), HumanDate(p.CreatedAt)))

	if len(data.Versions) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("plan versions"))
		b.WriteString("\n")
		items := lineageTreeItems(domain.BuildPlanForest(data.Versions))
		b.WriteString(RenderTree(items))
	}

	if len(data.Records) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("generation history"))
		b.WriteString("\n")
		b.WriteString(FormatGenerationHistory(data.Records))
	}

	return b.String()
}
