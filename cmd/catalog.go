package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/cli/handlers"
)

var (
	colorFlag    string
	categoryFlag string
)

// categoryCmd groups the category subcommands
var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
	Long: `Categories group projects and give them a colour. A project without a
category uses the configured default_color.`,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.AddCategory(ctx, d, args[0], colorFlag)
	}),
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and their projects",
	Args:  cobra.NoArgs,
	Run: withDeps(func(ctx context.Context, d *cli.Deps, _ []string) {
		handlers.ListCategories(ctx, d)
	}),
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.RenameCategory(ctx, d, args[0], args[1])
	}),
}

var categoryColorCmd = &cobra.Command{
	Use:   "color <name> <#RRGGBB>",
	Short: "Change a category's colour",
	Args:  cobra.ExactArgs(2),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.RecolorCategory(ctx, d, args[0], args[1])
	}),
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an empty category",
	Args:  cobra.ExactArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.DeleteCategory(ctx, d, args[0])
	}),
}

// projectCmd groups the project subcommands
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a project",
	Args:  cobra.ExactArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.AddProject(ctx, d, args[0], categoryFlag)
	}),
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	Run: withDeps(func(ctx context.Context, d *cli.Deps, _ []string) {
		handlers.ListProjects(ctx, d)
	}),
}

var projectAssignCmd = &cobra.Command{
	Use:   "assign <project> [category]",
	Short: "Move a project into a category (or out, without one)",
	Args:  cobra.RangeArgs(1, 2),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		category := ""
		if len(args) == 2 {
			category = args[1]
		}
		handlers.AssignProject(ctx, d, args[0], category)
	}),
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.RenameProject(ctx, d, args[0], args[1])
	}),
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a project and all its sessions",
	Args:  cobra.ExactArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.DeleteProject(ctx, d, args[0], yesFlag)
	}),
}

func init() {
	categoryAddCmd.Flags().StringVarP(&colorFlag, "color", "c", "", "colour as #RRGGBB (default: default_color)")
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd, categoryRenameCmd, categoryColorCmd, categoryDeleteCmd)

	projectAddCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "category to add the project to")
	projectDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation prompt")
	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectAssignCmd, projectRenameCmd, projectDeleteCmd)

	rootCmd.AddCommand(categoryCmd, projectCmd)
}
