package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stencilworks/stencil/internal/domain"
)

// FormatLineage renders a project's plan version forest as a tree.
func FormatLineage(forest []*domain.PlanTreeNode) string {
	return RenderTree(lineageTreeItems(forest))
}

func lineageTreeItems(forest []*domain.PlanTreeNode) []TreeItem {
	var items []TreeItem
	var walk func(nodes []*domain.PlanTreeNode, level int)
	walk = func(nodes []*domain.PlanTreeNode, level int) {
		for i, n := range nodes {
			v := n.Version
			detail := ""
			if v.ChangeLog != "" {
				detail = v.ChangeLog
			}
			items = append(items, TreeItem{
				Title:   v.Title,
				Version: v.Version,
				Level:   level,
				IsLast:  i == len(nodes)-1,
				Status:  string(v.Status),
				Detail:  detail,
			})
			walk(n.Children, level+1)
		}
	}
	walk(forest, 0)
	return items
}

// FormatVersionList renders plan versions as an aligned table, ascending by
// version number (the repository already orders them that way).
func FormatVersionList(versions []*domain.PlanVersion) string {
	headers := []string{"VERSION", "TITLE", "STATUS", "CREATED", "CHANGE"}
	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, []string{
			Bold(fmt.Sprintf("v%d", v.Version)),
			v.Title,
			VersionStatusPill(v.Status),
			Dim(HumanDate(v.CreatedAt)),
			Dim(v.ChangeLog),
		})
	}
	return RenderTable(headers, rows)
}

// FormatVersionDetail renders one plan version with its document sections.
func FormatVersionDetail(v *domain.PlanVersion) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("v%d — %s", v.Version, v.Title)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Status:"), VersionStatusPill(v.Status)))
	if v.ParentID != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Parent:"), TruncID(*v.ParentID)))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Created:"), HumanTimestamp(v.CreatedAt)))
	if v.ChangeLog != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Change:"), v.ChangeLog))
	}
	if v.Notes != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Notes:"), v.Notes))
	}

	sections := []struct {
		name string
		raw  json.RawMessage
	}{
		{"Goals", v.Fields.Goals},
		{"Requirements", v.Fields.Requirements},
		{"Architecture", v.Fields.Architecture},
		{"Tech stack", v.Fields.TechStack},
		{"Timeline", v.Fields.Timeline},
		{"Resources", v.Fields.Resources},
		{"Risks", v.Fields.Risks},
	}
	for _, s := range sections {
		if len(s.raw) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(Header(s.name))
		b.WriteString("\n")
		b.WriteString(renderSection(s.raw))
	}

	return b.String()
}

// renderSection pretty-prints a plan field section. String lists become
// bullet lines; anything else is shown as indented JSON.
func renderSection(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		var b strings.Builder
		for _, item := range list {
			b.WriteString(fmt.Sprintf("  %s %s\n", StyleBlue.Render("•"), item))
		}
		return b.String()
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Dim(string(raw)) + "\n"
	}
	out, err := json.MarshalIndent(parsed, "  ", "  ")
	if err != nil {
		return Dim(string(raw)) + "\n"
	}
	return "  " + string(out) + "\n"
}
