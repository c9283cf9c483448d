package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/service"
)

// durationDoc is how durations appear in JSON and YAML output
type durationDoc struct {
	Text    string `json:"text" yaml:"text"`
	Seconds int64  `json:"seconds" yaml:"seconds"`
}

func newDurationDoc(d time.Duration) durationDoc {
	return durationDoc{Text: cli.FormatDuration(d), Seconds: int64(d / time.Second)}
}

type projectTotalDoc struct {
	Project  string      `json:"project" yaml:"project"`
	Category string      `json:"category,omitempty" yaml:"category,omitempty"`
	Color    string      `json:"color" yaml:"color"`
	Total    durationDoc `json:"total" yaml:"total"`
	Sessions int         `json:"sessions" yaml:"sessions"`
}

type categoryTotalDoc struct {
	Category string      `json:"category" yaml:"category"`
	Color    string      `json:"color" yaml:"color"`
	Total    durationDoc `json:"total" yaml:"total"`
	Projects int         `json:"projects" yaml:"projects"`
}

type totalsDoc struct {
	At            time.Time          `json:"at" yaml:"at"`
	Projects      []projectTotalDoc  `json:"projects" yaml:"projects"`
	Categories    []categoryTotalDoc `json:"categories" yaml:"categories"`
	Uncategorized durationDoc        `json:"uncategorized" yaml:"uncategorized"`
}

type shareDoc struct {
	Project  string      `json:"project" yaml:"project"`
	Total    durationDoc `json:"total" yaml:"total"`
	Sessions int         `json:"sessions" yaml:"sessions"`
	Percent  float64     `json:"percent" yaml:"percent"`
}

type dayDoc struct {
	Date     string      `json:"date" yaml:"date"`
	Total    durationDoc `json:"total" yaml:"total"`
	Projects []shareDoc  `json:"projects" yaml:"projects"`
}

type weekDoc struct {
	Start    string      `json:"start" yaml:"start"`
	End      string      `json:"end" yaml:"end"`
	At       time.Time   `json:"at" yaml:"at"`
	Total    durationDoc `json:"total" yaml:"total"`
	Days     []dayDoc    `json:"days" yaml:"days"`
	Projects []shareDoc  `json:"projects" yaml:"projects"`
}

func newTotalsDoc(t *service.Totals) totalsDoc {
	doc := totalsDoc{
		At:            t.At,
		Projects:      []projectTotalDoc{},
		Categories:    []categoryTotalDoc{},
		Uncategorized: newDurationDoc(t.Uncategorized),
	}
	for _, p := range t.Projects {
		doc.Projects = append(doc.Projects, projectTotalDoc{
			Project:  p.Project,
			Category: p.Category,
			Color:    p.Color,
			Total:    newDurationDoc(p.Total),
			Sessions: p.SessionCount,
		})
	}
	for _, c := range t.Categories {
		doc.Categories = append(doc.Categories, categoryTotalDoc{
			Category: c.Category,
			Color:    c.Color,
			Total:    newDurationDoc(c.Total),
			Projects: c.ProjectCount,
		})
	}
	return doc
}

func newWeekDoc(w *service.WeekReport) weekDoc {
	doc := weekDoc{
		Start:    w.Start.Format("2006-01-02"),
		End:      w.End.AddDate(0, 0, -1).Format("2006-01-02"),
		At:       w.At,
		Total:    newDurationDoc(w.Total),
		Days:     make([]dayDoc, 0, len(w.Days)),
		Projects: []shareDoc{},
	}
	for _, p := range w.Projects {
		doc.Projects = append(doc.Projects, shareDoc{p.Project, newDurationDoc(p.Total), p.SessionCount, p.Percent})
	}
	for _, d := range w.Days {
		day := dayDoc{Date: d.Date.Format("2006-01-02"), Total: newDurationDoc(d.Total), Projects: []shareDoc{}}
		for _, p := range d.Projects {
			day.Projects = append(day.Projects, shareDoc{p.Project, newDurationDoc(p.Total), p.SessionCount, p.Percent})
		}
		doc.Days = append(doc.Days, day)
	}
	return doc
}

// ShowTotals prints all-time project and category totals
func ShowTotals(ctx context.Context, deps *cli.Deps, format string) {
	f, err := cli.ParseFormat(format)
	if err != nil {
		fail(deps, err)
		return
	}

	totals, err := deps.Services.Report.Totals(ctx)
	if err != nil {
		fail(deps, err)
		return
	}

	if f != cli.FormatText {
		if err := cli.WriteStructured(deps.Stdout, f, newTotalsDoc(totals)); err != nil {
			fail(deps, err)
		}
		return
	}

	if len(totals.Projects) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No projects yet")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Totals (as of %s):\n", totals.At.Format("2006-01-02 15:04"))
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	for _, p := range totals.Projects {
		_, _ = fmt.Fprintf(deps.Stdout, "  %s %-24s  %10s  (%d %s)\n",
			cli.Swatch(p.Color), p.Project, cli.FormatDuration(p.Total),
			p.SessionCount, cli.Pluralize("session", p.SessionCount))
	}

	if len(totals.Categories) > 0 {
		_, _ = fmt.Fprintln(deps.Stdout)
		_, _ = fmt.Fprintln(deps.Stdout, "By category:")
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
		for _, c := range totals.Categories {
			_, _ = fmt.Fprintf(deps.Stdout, "  %s %-24s  %10s  (%d %s)\n",
				cli.Swatch(c.Color), c.Category, cli.FormatDuration(c.Total),
				c.ProjectCount, cli.Pluralize("project", c.ProjectCount))
		}
		if totals.Uncategorized > 0 {
			_, _ = fmt.Fprintf(deps.Stdout, "    %-24s  %10s\n", "(uncategorized)", cli.FormatDuration(totals.Uncategorized))
		}
	}
}

// ShowWeek prints the weekly report for this week, or last week
func ShowWeek(ctx context.Context, deps *cli.Deps, last bool, format string) {
	f, err := cli.ParseFormat(format)
	if err != nil {
		fail(deps, err)
		return
	}

	var week *service.WeekReport
	if last {
		week, err = deps.Services.Report.LastWeek(ctx)
	} else {
		week, err = deps.Services.Report.ThisWeek(ctx)
	}
	if err != nil {
		fail(deps, err)
		return
	}

	if f != cli.FormatText {
		if err := cli.WriteStructured(deps.Stdout, f, newWeekDoc(week)); err != nil {
			fail(deps, err)
		}
		return
	}

	period := cli.FormatDateRangeForDisplay(week.Start, week.End.AddDate(0, 0, -1))
	if week.Total == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No sessions for %s\n", period)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Week of %s:\n", period)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	for _, d := range week.Days {
		_, _ = fmt.Fprintf(deps.Stdout, "  %-10s  %10s\n", d.Date.Format("Mon Jan 2"), cli.FormatDuration(d.Total))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "  %-10s  %10s\n", "Total", cli.FormatDuration(week.Total))

	_, _ = fmt.Fprintln(deps.Stdout)
	_, _ = fmt.Fprintln(deps.Stdout, "By project:")
	for _, p := range week.Projects {
		_, _ = fmt.Fprintf(deps.Stdout, "  %-24s  %10s  %5.1f%%  (%d %s)\n",
			p.Project, cli.FormatDuration(p.Total), p.Percent,
			p.SessionCount, cli.Pluralize("session", p.SessionCount))
	}
}
