package cli

import (
	"github.com/spf13/cobra"

	"github.com/stencilworks/stencil/internal/catalog"
	"github.com/stencilworks/stencil/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Plans    service.PlanService
	Scaffold service.ScaffoldService
	Catalog  *catalog.Catalog

	// OutputDir is where generated projects land when --target is omitted;
	// each run gets a fresh UUID subdirectory.
	OutputDir string

	// IsInteractive reports whether stdout is a terminal; non-interactive
	// output skips styling so it stays pipe-friendly.
	IsInteractive func() bool
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "stencil" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "stencil",
		Short: "Project scaffolding engine with versioned plans",
	}

	root.AddCommand(
		newProjectCmd(app),
		newTemplateCmd(app),
		newPlanCmd(app),
		newGenerateCmd(app),
	)

	return root
}
