package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stencilworks/stencil/internal/cli/formatter"
	"github.com/stencilworks/stencil/internal/domain"
)

func newGenerateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate projects from templates",
	}

	cmd.AddCommand(
		newGenerateRunCmd(app),
		newGenerateHistoryCmd(app),
		newGenerateRecentCmd(app),
	)

	return cmd
}

// parseKeyValues parses repeated key=value flags into a map.
func parseKeyValues(flag string, pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid --%s format %q, expected key=value", flag, pair)
		}
		m[parts[0]] = parts[1]
	}
	return m, nil
}

func newGenerateRunCmd(app *App) *cobra.Command {
	var templateID, target, projectRef string
	var vars, deps []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Materialize a template into a target directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			bindings, err := parseKeyValues("var", vars)
			if err != nil {
				return err
			}

			// Overrides use name=constraint; an empty constraint means any.
			var overrides []domain.Dependency
			for _, pair := range deps {
				parts := strings.SplitN(pair, "=", 2)
				if parts[0] == "" {
					return fmt.Errorf("invalid --dep format %q, expected name=constraint", pair)
				}
				dep := domain.Dependency{Name: parts[0]}
				if len(parts) == 2 {
					dep.Constraint = parts[1]
				}
				overrides = append(overrides, dep)
			}

			var projectID string
			if projectRef != "" {
				projectID, err = resolveProjectID(ctx, app, projectRef)
				if err != nil {
					return err
				}
			}

			// Without an explicit target each run gets its own UUID
			// directory under the configured output root.
			if target == "" {
				if app.OutputDir == "" {
					return fmt.Errorf("--target is required when no output directory is configured")
				}
				target = filepath.Join(app.OutputDir, uuid.New().String())
			}

			rec, err := app.Scaffold.Generate(ctx, domain.GenerationRequest{
				TemplateID: templateID,
				ProjectID:  projectID,
				TargetRoot: target,
				Bindings:   bindings,
				Overrides:  overrides,
			})
			if err != nil {
				return err
			}

			result := &domain.GeneratedProject{
				BaseDir:  rec.TargetRoot,
				Files:    rec.Files,
				Manifest: rec.Manifest,
			}
			if app.interactive() {
				fmt.Printf("%s\n", formatter.FormatGenerationResult(result))
				return nil
			}
			fmt.Printf("Generated %d files in %s\n", len(result.Files), result.BaseDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Template ID or name")
	cmd.Flags().StringVar(&target, "target", "", "Target directory (must not exist; defaults to a UUID directory under the output root)")
	cmd.Flags().StringVar(&projectRef, "project", "", "Project to attach the generation to")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Placeholder bindings (key=value)")
	cmd.Flags().StringArrayVar(&deps, "dep", nil, "Dependency constraint overrides (name=constraint)")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func newGenerateHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history PROJECT",
		Short: "Show a project's generation attempts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			records, err := app.Scaffold.History(ctx, projectID)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No generation attempts yet.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatGenerationHistory(records))
			return nil
		},
	}
}

func newGenerateRecentCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent generation attempts across all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Scaffold.Recent(context.Background(), limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No generation attempts yet.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatGenerationHistory(records))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of attempts to show")

	return cmd
}
