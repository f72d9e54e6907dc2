package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/stencilworks/stencil/internal/catalog"
	"github.com/stencilworks/stencil/internal/cli"
	"github.com/stencilworks/stencil/internal/db"
	"github.com/stencilworks/stencil/internal/materialize"
	"github.com/stencilworks/stencil/internal/repository"
	"github.com/stencilworks/stencil/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.stencil/stencil.db
	dbPath := os.Getenv("STENCIL_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".stencil", "stencil.db")
	}

	// Determine template directory
	templateDir := os.Getenv("STENCIL_TEMPLATES")
	if templateDir == "" {
		// Check for ./templates in current directory first (development)
		if stat, err := os.Stat("./templates"); err == nil && stat.IsDir() {
			templateDir = "./templates"
		} else {
			// Fall back to ~/.stencil/templates (production)
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}
			templateDir = filepath.Join(home, ".stencil", "templates")
		}
	}

	// Default output root for generated projects, one UUID directory per run
	outputDir := os.Getenv("STENCIL_OUTPUT")
	if outputDir == "" {
		outputDir = "./generated-projects"
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Load the template catalog. Broken template files are reported but do
	// not block startup; the remaining catalog stays usable.
	cat, loadErrs := catalog.LoadDir(templateDir)
	for _, lerr := range loadErrs {
		fmt.Fprintf(os.Stderr, "Warning: skipping template: %v\n", lerr)
	}

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	versionRepo := repository.NewSQLitePlanVersionRepo(database)
	recordRepo := repository.NewSQLiteGenerationRecordRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case logging goes to stderr when requested; stdout stays clean
	// for command output.
	var observers []service.UseCaseObserver
	if os.Getenv("STENCIL_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects:  service.NewProjectService(projectRepo),
		Plans:     service.NewPlanService(projectRepo, versionRepo, uow, observers...),
		Scaffold:  service.NewScaffoldService(cat, materialize.New(), recordRepo, observers...),
		Catalog:   cat,
		OutputDir: outputDir,
	}

	// Detect interactive terminal for styled output.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
