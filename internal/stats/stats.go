// Package stats rolls session durations up into project, category, day and
// week totals. Every function takes the query instant explicitly and reads
// durations through timer.Session.CurrentDuration, so results are
// deterministic and never cached.
package stats

import (
	"sort"
	"time"

	"github.com/xolan/punch/internal/timer"
	"github.com/xolan/punch/internal/timeutil"
)

// NoProject labels sessions whose project name is unknown
const NoProject = "(no project)"

// Record is a session paired with the name of the project that owns it.
type Record struct {
	Session     timer.Session
	ProjectName string
}

// ProjectSessions is a project's full set of sessions.
type ProjectSessions struct {
	ProjectName string
	Sessions    []timer.Session
}

// ProjectBreakdown is one project's share of a period
type ProjectBreakdown struct {
	Project      string        `json:"project" yaml:"project"`
	Total        time.Duration `json:"total" yaml:"total"`
	SessionCount int           `json:"session_count" yaml:"session_count"`
	Percent      float64       `json:"percent" yaml:"percent"`
}

// DayBucket holds the sessions started on one day of a week
type DayBucket struct {
	Date     time.Time          `json:"date" yaml:"date"`
	Total    time.Duration      `json:"total" yaml:"total"`
	Projects []ProjectBreakdown `json:"projects" yaml:"projects"`
}

// ProjectTotal sums CurrentDuration over a project's sessions.
func ProjectTotal(sessions []timer.Session, at time.Time) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.CurrentDuration(at)
	}
	return total
}

// CategoryTotal sums ProjectTotal over a category's projects. Projects with
// no sessions contribute zero.
func CategoryTotal(projects []ProjectSessions, at time.Time) time.Duration {
	var total time.Duration
	for _, p := range projects {
		total += ProjectTotal(p.Sessions, at)
	}
	return total
}

// BucketByDay splits records into the 7 days starting at weekStart's
// midnight. A session belongs to the day its start falls in, even when it
// runs past midnight. Records outside the week are ignored.
func BucketByDay(records []Record, weekStart time.Time, at time.Time) [7]DayBucket {
	var buckets [7]DayBucket
	var bounds [8]time.Time
	first := timeutil.StartOfDay(weekStart)
	for i := range bounds {
		bounds[i] = first.AddDate(0, 0, i)
	}

	perDay := make([][]Record, 7)
	for _, r := range records {
		for day := 0; day < 7; day++ {
			if timeutil.InRange(r.Session.Start, bounds[day], bounds[day+1]) {
				perDay[day] = append(perDay[day], r)
				break
			}
		}
	}

	for day := range buckets {
		projects, total := breakdown(perDay[day], at)
		buckets[day] = DayBucket{
			Date:     bounds[day],
			Total:    total,
			Projects: projects,
		}
	}
	return buckets
}

// WeeklyTotal sums CurrentDuration over records whose start is in [weekStart, weekEnd).
func WeeklyTotal(records []Record, weekStart, weekEnd time.Time, at time.Time) time.Duration {
	var total time.Duration
	for _, r := range filterByStart(records, weekStart, weekEnd) {
		total += r.Session.CurrentDuration(at)
	}
	return total
}

// WeeklyProjectBreakdown groups records started in [weekStart, weekEnd) by
// project name, sorted by total descending. Percent is each project's share
// of the weekly total, and zero when the total is zero.
func WeeklyProjectBreakdown(records []Record, weekStart, weekEnd time.Time, at time.Time) []ProjectBreakdown {
	projects, _ := breakdown(filterByStart(records, weekStart, weekEnd), at)
	return projects
}

func filterByStart(records []Record, start, end time.Time) []Record {
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if timeutil.InRange(r.Session.Start, start, end) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// breakdown groups records by project name and fills in percentages.
func breakdown(records []Record, at time.Time) ([]ProjectBreakdown, time.Duration) {
	projectMap := make(map[string]*ProjectBreakdown)
	var total time.Duration

	for _, r := range records {
		name := r.ProjectName
		if name == "" {
			name = NoProject
		}
		if _, exists := projectMap[name]; !exists {
			projectMap[name] = &ProjectBreakdown{Project: name}
		}
		d := r.Session.CurrentDuration(at)
		projectMap[name].Total += d
		projectMap[name].SessionCount++
		total += d
	}

	breakdowns := make([]ProjectBreakdown, 0, len(projectMap))
	for _, b := range projectMap {
		if total > 0 {
			b.Percent = float64(b.Total) / float64(total) * 100
		}
		breakdowns = append(breakdowns, *b)
	}

	// Sort by total descending, then name for a stable order
	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].Total != breakdowns[j].Total {
			return breakdowns[i].Total > breakdowns[j].Total
		}
		return breakdowns[i].Project < breakdowns[j].Project
	})

	return breakdowns, total
}
