package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stencilworks/stencil/internal/catalog"
	"github.com/stencilworks/stencil/internal/cli/formatter"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Browse the template catalog",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateInspectCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	var category, tag string
	var publicOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries := app.Catalog.List(catalog.Filter{
				Category:   category,
				Tag:        tag,
				PublicOnly: publicOnly,
			})

			if len(summaries) == 0 {
				fmt.Println("No templates found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatTemplateList(summaries))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().BoolVar(&publicOnly, "public", false, "Only public templates")

	return cmd
}

func newTemplateInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect ID",
		Aliases: []string{"show"},
		Short:   "Show template details",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := app.Catalog.Get(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatTemplateInspect(tpl))
			return nil
		},
	}
}
