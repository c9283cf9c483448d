package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/stats"
	"github.com/xolan/punch/internal/timer"
	"github.com/xolan/punch/internal/timeutil"
)

// ReportService computes totals and weekly summaries. Nothing is cached:
// running sessions are measured at the moment of the call.
type ReportService struct {
	env *env
}

// ProjectTotals returns each project's all-time total, largest first.
func (s *ReportService) ProjectTotals(ctx context.Context) ([]ProjectTotal, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return totals.Projects, nil
}

// CategoryTotals returns each category's total, largest first.
func (s *ReportService) CategoryTotals(ctx context.Context) ([]CategoryTotal, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return totals.Categories, nil
}

// Totals computes project and category totals at a single instant.
func (s *ReportService) Totals(ctx context.Context) (*Totals, error) {
	e := s.env
	at := e.now()

	projects, err := e.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	categories, err := e.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	categoryByID := make(map[string]entry.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	result := &Totals{At: at}
	perCategory := make(map[string][]stats.ProjectSessions)
	var uncategorized []stats.ProjectSessions

	for _, p := range projects {
		sessions, err := e.store.ListSessionsByProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load sessions: %w", err)
		}

		var category *entry.Category
		if p.HasCategory() {
			if c, ok := categoryByID[*p.CategoryID]; ok {
				category = &c
			}
		}

		pt := ProjectTotal{
			Project:      p.Name,
			Color:        entry.EffectiveColor(p, category, e.config.Color()),
			Total:        stats.ProjectTotal(sessions, at),
			SessionCount: len(sessions),
		}
		ps := stats.ProjectSessions{ProjectName: p.Name, Sessions: sessions}
		if category != nil {
			pt.Category = category.Name
			perCategory[category.ID] = append(perCategory[category.ID], ps)
		} else {
			uncategorized = append(uncategorized, ps)
		}
		result.Projects = append(result.Projects, pt)
	}

	for _, c := range categories {
		result.Categories = append(result.Categories, CategoryTotal{
			Category:     c.Name,
			Color:        c.Color,
			Total:        stats.CategoryTotal(perCategory[c.ID], at),
			ProjectCount: len(perCategory[c.ID]),
		})
	}
	result.Uncategorized = stats.CategoryTotal(uncategorized, at)

	sort.SliceStable(result.Projects, func(i, j int) bool {
		return result.Projects[i].Total > result.Projects[j].Total
	})
	sort.SliceStable(result.Categories, func(i, j int) bool {
		return result.Categories[i].Total > result.Categories[j].Total
	})
	return result, nil
}

// Week summarises the week containing ref, using the configured week start.
func (s *ReportService) Week(ctx context.Context, ref time.Time) (*WeekReport, error) {
	e := s.env
	at := e.now()
	start, end := timeutil.WeekBounds(ref, e.config.WeekStart())

	sessions, err := e.store.ListSessionsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	records, err := s.records(ctx, sessions)
	if err != nil {
		return nil, err
	}

	return &WeekReport{
		Start:    start,
		End:      end,
		At:       at,
		Days:     stats.BucketByDay(records, start, at),
		Total:    stats.WeeklyTotal(records, start, end, at),
		Projects: stats.WeeklyProjectBreakdown(records, start, end, at),
	}, nil
}

// ThisWeek is Week(now).
func (s *ReportService) ThisWeek(ctx context.Context) (*WeekReport, error) {
	return s.Week(ctx, s.env.now())
}

// LastWeek is the week before the current one.
func (s *ReportService) LastWeek(ctx context.Context) (*WeekReport, error) {
	return s.Week(ctx, s.env.now().AddDate(0, 0, -7))
}

func (s *ReportService) records(ctx context.Context, sessions []timer.Session) ([]stats.Record, error) {
	projects, err := s.env.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	records := make([]stats.Record, 0, len(sessions))
	for _, ws := range sessions {
		records = append(records, stats.Record{Session: ws, ProjectName: names[ws.ProjectID]})
	}
	return records, nil
}
