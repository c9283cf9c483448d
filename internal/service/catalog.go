package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/storage"
)

// CatalogService manages categories and projects.
type CatalogService struct {
	env *env
}

// AddCategory creates a category. An empty color uses the configured default.
func (s *CatalogService) AddCategory(ctx context.Context, name, color string) (entry.Category, error) {
	e := s.env
	name, err := entry.NormalizeName(name)
	if err != nil {
		return entry.Category{}, err
	}
	if strings.TrimSpace(color) == "" {
		color = e.config.Color()
	}
	color, err = entry.NormalizeColor(color)
	if err != nil {
		return entry.Category{}, err
	}

	c := entry.Category{
		ID:        e.newID(),
		Name:      name,
		Color:     color,
		CreatedAt: e.now(),
	}
	if err := e.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			return entry.Category{}, fmt.Errorf("%w: %s", ErrCategoryExists, name)
		}
		return entry.Category{}, fmt.Errorf("failed to save category: %w", err)
	}
	return c, nil
}

// RenameCategory changes a category's name.
func (s *CatalogService) RenameCategory(ctx context.Context, oldName, newName string) (entry.Category, error) {
	e := s.env
	c, err := e.findCategory(ctx, oldName)
	if err != nil {
		return entry.Category{}, err
	}
	newName, err = entry.NormalizeName(newName)
	if err != nil {
		return entry.Category{}, err
	}

	c.Name = newName
	if err := e.store.UpdateCategory(ctx, c); err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			return entry.Category{}, fmt.Errorf("%w: %s", ErrCategoryExists, newName)
		}
		return entry.Category{}, fmt.Errorf("failed to save category: %w", err)
	}
	return c, nil
}

// RecolorCategory changes a category's colour.
func (s *CatalogService) RecolorCategory(ctx context.Context, name, color string) (entry.Category, error) {
	e := s.env
	c, err := e.findCategory(ctx, name)
	if err != nil {
		return entry.Category{}, err
	}
	color, err = entry.NormalizeColor(color)
	if err != nil {
		return entry.Category{}, err
	}

	c.Color = color
	if err := e.store.UpdateCategory(ctx, c); err != nil {
		return entry.Category{}, fmt.Errorf("failed to save category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a category that owns no projects.
func (s *CatalogService) DeleteCategory(ctx context.Context, name string) error {
	e := s.env
	c, err := e.findCategory(ctx, name)
	if err != nil {
		return err
	}
	if err := e.store.DeleteCategory(ctx, c.ID); err != nil {
		if errors.Is(err, storage.ErrCategoryInUse) {
			return fmt.Errorf("%w: %s", ErrCategoryNotEmpty, c.Name)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// ListCategories returns every category with its projects.
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	e := s.env
	categories, err := e.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	summaries := make([]CategorySummary, 0, len(categories))
	for _, c := range categories {
		projects, err := e.store.ListProjectsByCategory(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load projects: %w", err)
		}
		summaries = append(summaries, CategorySummary{Category: c, Projects: projects})
	}
	return summaries, nil
}

// AddProject creates a project, optionally inside an existing category.
func (s *CatalogService) AddProject(ctx context.Context, name, categoryName string) (ProjectView, error) {
	e := s.env
	name, err := entry.NormalizeName(name)
	if err != nil {
		return ProjectView{}, err
	}

	p := entry.Project{
		ID:        e.newID(),
		Name:      name,
		CreatedAt: e.now(),
	}
	if strings.TrimSpace(categoryName) != "" {
		c, err := e.findCategory(ctx, categoryName)
		if err != nil {
			return ProjectView{}, err
		}
		p.CategoryID = &c.ID
	}

	if err := e.store.CreateProject(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			return ProjectView{}, fmt.Errorf("%w: %s", ErrProjectExists, name)
		}
		return ProjectView{}, fmt.Errorf("failed to save project: %w", err)
	}
	return e.projectView(ctx, p)
}

// RenameProject changes a project's name.
func (s *CatalogService) RenameProject(ctx context.Context, oldName, newName string) (ProjectView, error) {
	e := s.env
	p, err := e.findProject(ctx, oldName)
	if err != nil {
		return ProjectView{}, err
	}
	newName, err = entry.NormalizeName(newName)
	if err != nil {
		return ProjectView{}, err
	}

	p.Name = newName
	if err := e.store.UpdateProject(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			return ProjectView{}, fmt.Errorf("%w: %s", ErrProjectExists, newName)
		}
		return ProjectView{}, fmt.Errorf("failed to save project: %w", err)
	}
	return e.projectView(ctx, p)
}

// AssignProject moves a project into a category. An empty category name
// removes it from its category.
func (s *CatalogService) AssignProject(ctx context.Context, projectName, categoryName string) (ProjectView, error) {
	e := s.env
	p, err := e.findProject(ctx, projectName)
	if err != nil {
		return ProjectView{}, err
	}

	p.CategoryID = nil
	if strings.TrimSpace(categoryName) != "" {
		c, err := e.findCategory(ctx, categoryName)
		if err != nil {
			return ProjectView{}, err
		}
		p.CategoryID = &c.ID
	}

	if err := e.store.UpdateProject(ctx, p); err != nil {
		return ProjectView{}, fmt.Errorf("failed to save project: %w", err)
	}
	return e.projectView(ctx, p)
}

// DeleteProject removes a project and all its sessions, cancelling the
// reminders of any open one. It returns the number of sessions removed.
func (s *CatalogService) DeleteProject(ctx context.Context, name string) (int, error) {
	e := s.env
	p, err := e.findProject(ctx, name)
	if err != nil {
		return 0, err
	}

	sessions, err := e.store.ListSessionsByProject(ctx, p.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load sessions: %w", err)
	}

	if err := e.store.DeleteProject(ctx, p.ID); err != nil {
		return 0, fmt.Errorf("failed to delete project: %w", err)
	}

	hadOpen := false
	for _, ws := range sessions {
		if ws.IsOpen() {
			hadOpen = true
		}
		e.cancelReminders(ws.ID)
	}
	if hadOpen {
		e.clearLive(ctx, "")
	}
	return len(sessions), nil
}

// ListProjects returns every project with its category and colour.
func (s *CatalogService) ListProjects(ctx context.Context) ([]ProjectView, error) {
	e := s.env
	projects, err := e.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		v, err := e.projectView(ctx, p)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
