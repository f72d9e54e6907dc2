package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stencilworks/stencil/internal/cli/formatter"
	"github.com/stencilworks/stencil/internal/domain"
	"github.com/stencilworks/stencil/internal/service"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage versioned plans",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanPromoteCmd(app),
		newPlanArchiveCmd(app),
		newPlanTreeCmd(app),
	)

	return cmd
}

// resolveVersion turns "PROJECT N" command arguments into the stored version.
func resolveVersion(ctx context.Context, app *App, projectRef, versionArg string) (*domain.PlanVersion, error) {
	projectID, err := resolveProjectID(ctx, app, projectRef)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimPrefix(versionArg, "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid version number %q", versionArg)
	}
	return app.Plans.GetByNumber(ctx, projectID, n)
}

// sectionFlag parses one plan document section given as raw JSON.
func sectionFlag(name, value string) (json.RawMessage, error) {
	if value == "" {
		return nil, nil
	}
	if !json.Valid([]byte(value)) {
		return nil, fmt.Errorf("--%s must be valid JSON", name)
	}
	return json.RawMessage(value), nil
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var title, notes, changelog, parent string
	var goals, requirements, architecture, techStack, timeline, resources, risks string

	cmd := &cobra.Command{
		Use:     "create PROJECT",
		Aliases: []string{"new"},
		Short:   "Create a new plan version",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var fields domain.PlanFields
			sections := []struct {
				name  string
				value string
				dst   *json.RawMessage
			}{
				{"goals", goals, &fields.Goals},
				{"requirements", requirements, &fields.Requirements},
				{"architecture", architecture, &fields.Architecture},
				{"tech-stack", techStack, &fields.TechStack},
				{"timeline", timeline, &fields.Timeline},
				{"resources", resources, &fields.Resources},
				{"risks", risks, &fields.Risks},
			}
			for _, s := range sections {
				raw, err := sectionFlag(s.name, s.value)
				if err != nil {
					return err
				}
				*s.dst = raw
			}

			var parentID *string
			if parent != "" {
				pv, err := resolveVersion(ctx, app, args[0], parent)
				if err != nil {
					return err
				}
				parentID = &pv.ID
			}

			v, err := app.Plans.CreateVersion(ctx, service.CreateVersionInput{
				ProjectID: projectID,
				ParentID:  parentID,
				Title:     title,
				Fields:    fields,
				Notes:     notes,
				ChangeLog: changelog,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created plan v%d %q (draft)\n", v.Version, v.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Version title")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent version number (e.g. 2 or v2)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&changelog, "changelog", "", "What changed relative to the parent")
	cmd.Flags().StringVar(&goals, "goals", "", "Goals section (JSON)")
	cmd.Flags().StringVar(&requirements, "requirements", "", "Requirements section (JSON)")
	cmd.Flags().StringVar(&architecture, "architecture", "", "Architecture section (JSON)")
	cmd.Flags().StringVar(&techStack, "tech-stack", "", "Tech stack section (JSON)")
	cmd.Flags().StringVar(&timeline, "timeline", "", "Timeline section (JSON)")
	cmd.Flags().StringVar(&resources, "resources", "", "Resources section (JSON)")
	cmd.Flags().StringVar(&risks, "risks", "", "Risks section (JSON)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List plan versions ascending by number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			forest, err := app.Plans.Lineage(ctx, projectID)
			if err != nil {
				return err
			}

			var versions []*domain.PlanVersion
			var flatten func(nodes []*domain.PlanTreeNode)
			flatten = func(nodes []*domain.PlanTreeNode) {
				for _, n := range nodes {
					versions = append(versions, n.Version)
					flatten(n.Children)
				}
			}
			flatten(forest)
			sort.Slice(versions, func(i, j int) bool { return versions[i].Version < versions[j].Version })

			if len(versions) == 0 {
				fmt.Println("No plan versions yet.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatVersionList(versions))
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT VERSION",
		Short: "Show one plan version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := resolveVersion(context.Background(), app, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatVersionDetail(v))
			return nil
		},
	}
}

func newPlanPromoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "promote PROJECT VERSION",
		Short: "Promote a version to active, archiving the previous active one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			v, err := resolveVersion(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}
			if err := app.Plans.Promote(ctx, v.ID); err != nil {
				return err
			}
			fmt.Printf("Promoted v%d %q to active\n", v.Version, v.Title)
			return nil
		},
	}
}

func newPlanArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive PROJECT VERSION",
		Short: "Archive a plan version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			v, err := resolveVersion(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}
			if err := app.Plans.Archive(ctx, v.ID); err != nil {
				return err
			}
			fmt.Printf("Archived v%d %q\n", v.Version, v.Title)
			return nil
		},
	}
}

func newPlanTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree PROJECT",
		Short: "Show the plan lineage tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			forest, err := app.Plans.Lineage(ctx, projectID)
			if err != nil {
				return err
			}

			if len(forest) == 0 {
				fmt.Println("No plan versions yet.")
				return nil
			}

			if app.interactive() {
				fmt.Printf("%s", formatter.FormatLineage(forest))
				return nil
			}
			printPlainLineage(forest, 0)
			return nil
		},
	}
}

// printPlainLineage writes an unstyled lineage listing for pipes and scripts.
func printPlainLineage(nodes []*domain.PlanTreeNode, depth int) {
	for _, n := range nodes {
		v := n.Version
		fmt.Printf("%sv%d\t%s\t%s\n", strings.Repeat("  ", depth), v.Version, v.Status, v.Title)
		printPlainLineage(n.Children, depth+1)
	}
}
