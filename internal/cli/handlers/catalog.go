package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/xolan/punch/internal/cli"
)

// AddCategory creates a category
func AddCategory(ctx context.Context, deps *cli.Deps, name, color string) {
	c, err := deps.Services.Catalog.AddCategory(ctx, name, color)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Category added: %s %s (%s)\n", cli.Swatch(c.Color), c.Name, c.Color)
}

// ListCategories lists categories with their projects
func ListCategories(ctx context.Context, deps *cli.Deps) {
	categories, err := deps.Services.Catalog.ListCategories(ctx)
	if err != nil {
		fail(deps, err)
		return
	}

	if len(categories) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No categories yet")
		_, _ = fmt.Fprintln(deps.Stdout, "Add one with: punch category add <name> [--color #RRGGBB]")
		return
	}

	for _, s := range categories {
		_, _ = fmt.Fprintf(deps.Stdout, "%s %-20s %s  (%d %s)\n",
			cli.Swatch(s.Category.Color), s.Category.Name, s.Category.Color,
			len(s.Projects), cli.Pluralize("project", len(s.Projects)))
		for _, p := range s.Projects {
			_, _ = fmt.Fprintf(deps.Stdout, "    %s\n", p.Name)
		}
	}
}

// RenameCategory renames a category
func RenameCategory(ctx context.Context, deps *cli.Deps, oldName, newName string) {
	c, err := deps.Services.Catalog.RenameCategory(ctx, oldName, newName)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Category renamed: %s -> %s\n", strings.TrimSpace(oldName), c.Name)
}

// RecolorCategory changes a category's colour
func RecolorCategory(ctx context.Context, deps *cli.Deps, name, color string) {
	c, err := deps.Services.Catalog.RecolorCategory(ctx, name, color)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Category colour set: %s %s (%s)\n", cli.Swatch(c.Color), c.Name, c.Color)
}

// DeleteCategory deletes an empty category
func DeleteCategory(ctx context.Context, deps *cli.Deps, name string) {
	if err := deps.Services.Catalog.DeleteCategory(ctx, name); err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Category deleted: %s\n", strings.TrimSpace(name))
}

// AddProject creates a project, optionally in a category
func AddProject(ctx context.Context, deps *cli.Deps, name, category string) {
	p, err := deps.Services.Catalog.AddProject(ctx, name, category)
	if err != nil {
		fail(deps, err)
		return
	}
	if p.Category != nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Project added: %s %s (in %s)\n", cli.Swatch(p.Color), p.Project.Name, p.Category.Name)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Project added: %s %s\n", cli.Swatch(p.Color), p.Project.Name)
}

// ListProjects lists every project
func ListProjects(ctx context.Context, deps *cli.Deps) {
	projects, err := deps.Services.Catalog.ListProjects(ctx)
	if err != nil {
		fail(deps, err)
		return
	}

	if len(projects) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No projects yet")
		_, _ = fmt.Fprintln(deps.Stdout, "Add one with: punch project add <name> [--category <category>]")
		return
	}

	for _, p := range projects {
		category := "-"
		if p.Category != nil {
			category = p.Category.Name
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%s %-20s %s\n", cli.Swatch(p.Color), p.Project.Name, category)
	}
}

// AssignProject moves a project into a category, or out of any with an
// empty category
func AssignProject(ctx context.Context, deps *cli.Deps, project, category string) {
	p, err := deps.Services.Catalog.AssignProject(ctx, project, category)
	if err != nil {
		fail(deps, err)
		return
	}
	if p.Category == nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Project %s is now uncategorized\n", p.Project.Name)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Project %s moved to %s\n", p.Project.Name, p.Category.Name)
}

// RenameProject renames a project
func RenameProject(ctx context.Context, deps *cli.Deps, oldName, newName string) {
	p, err := deps.Services.Catalog.RenameProject(ctx, oldName, newName)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Project renamed: %s -> %s\n", strings.TrimSpace(oldName), p.Project.Name)
}

// DeleteProject deletes a project and all its sessions after confirmation
func DeleteProject(ctx context.Context, deps *cli.Deps, name string, yes bool) {
	sessions, err := deps.Services.Session.List(ctx, name)
	if err != nil {
		fail(deps, err)
		return
	}

	if !yes {
		question := fmt.Sprintf("Delete project %s and its %d %s?",
			strings.TrimSpace(name), len(sessions), cli.Pluralize("session", len(sessions)))
		if !confirm(deps, question) {
			_, _ = fmt.Fprintln(deps.Stdout, "Deletion cancelled")
			return
		}
	}

	n, err := deps.Services.Catalog.DeleteProject(ctx, name)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Project deleted: %s (%d %s removed)\n",
		strings.TrimSpace(name), n, cli.Pluralize("session", n))
}
