package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// PlanFields holds the structured sections of a plan document. Each section
// is an opaque JSON blob to the engine; callers own the inner format.
type PlanFields struct {
	Goals        json.RawMessage `json:"goals,omitempty"`
	Requirements json.RawMessage `json:"requirements,omitempty"`
	Architecture json.RawMessage `json:"architecture,omitempty"`
	TechStack    json.RawMessage `json:"tech_stack,omitempty"`
	Timeline     json.RawMessage `json:"timeline,omitempty"`
	Resources    json.RawMessage `json:"resources,omitempty"`
	Risks        json.RawMessage `json:"risks,omitempty"`
}

// PlanVersion is one node in a project's plan lineage forest. Version numbers
// are allocated per project starting at 1; ParentID is nil for roots and must
// reference a version of the same project otherwise. Versions are never
// deleted, only archived.
type PlanVersion struct {
	ID        string
	ProjectID string
	Version   int
	ParentID  *string
	Title     string
	Fields    PlanFields
	Notes     string
	ChangeLog string
	Status    VersionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlanTreeNode is a PlanVersion with its resolved children, ordered by
// version number ascending.
type PlanTreeNode struct {
	Version  *PlanVersion
	Children []*PlanTreeNode
}

// BuildPlanForest reconstructs the branching tree(s) for a project from the
// flat lineage listing. Versions whose parent is missing from the input are
// treated as roots rather than dropped. Roots and children are ordered by
// version number.
func BuildPlanForest(versions []*PlanVersion) []*PlanTreeNode {
	nodes := make(map[string]*PlanTreeNode, len(versions))
	for _, v := range versions {
		nodes[v.ID] = &PlanTreeNode{Version: v}
	}

	var roots []*PlanTreeNode
	for _, v := range versions {
		node := nodes[v.ID]
		if v.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*v.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	var sortNodes func(ns []*PlanTreeNode)
	sortNodes = func(ns []*PlanTreeNode) {
		sort.Slice(ns, func(i, j int) bool {
			return ns[i].Version.Version < ns[j].Version.Version
		})
		for _, n := range ns {
			sortNodes(n.Children)
		}
	}
	sortNodes(roots)

	return roots
}
