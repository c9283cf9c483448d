package handlers

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// seedWeek logs 1h on Acme (Clients) and 30m on Solo on Monday
// January 15 2024, and 2h on Acme the week before.
func seedWeek(t *testing.T) *testDepsT {
	t.Helper()
	d := newTestDepsT(t)
	mustProject(t, d.deps, "Acme", "Clients")
	mustProject(t, d.deps, "Solo", "")

	LogSession(ctx, d.deps, "Acme", LogOptions{Duration: "1h", End: "08:00"})
	LogSession(ctx, d.deps, "Solo", LogOptions{Duration: "30m"})
	LogSession(ctx, d.deps, "Acme", LogOptions{Duration: "2h", End: "2024-01-10 12:00"})
	if *d.exitCode != 0 {
		t.Fatalf("seeding failed: %s", d.stderr.String())
	}
	d.stdout.Reset()
	return d
}

func TestShowTotals(t *testing.T) {
	d := seedWeek(t)

	ShowTotals(ctx, d.deps, "")

	if *d.exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *d.exitCode)
	}
	assertContains(t, d.stdout, "Totals (as of 2024-01-15 09:00):", "Acme", "3h", "(2 sessions)",
		"By category:", "Clients", "(1 project)", "(uncategorized)", "30m")

	out := d.stdout.String()
	if strings.Index(out, "Acme") > strings.Index(out, "Solo") {
		t.Error("expected projects ordered by total, largest first")
	}
}

func TestShowTotals_Empty(t *testing.T) {
	deps, stdout, _, _ := setupTestDeps(t)

	ShowTotals(ctx, deps, "text")

	assertContains(t, stdout, "No projects yet")
}

func TestShowTotals_JSON(t *testing.T) {
	d := seedWeek(t)

	ShowTotals(ctx, d.deps, "json")

	var doc totalsDoc
	if err := json.Unmarshal(d.stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, d.stdout.String())
	}
	if len(doc.Projects) != 2 || doc.Projects[0].Project != "Acme" || doc.Projects[0].Total.Seconds != 3*3600 {
		t.Errorf("projects = %+v", doc.Projects)
	}
	if doc.Uncategorized.Text != "30m" {
		t.Errorf("uncategorized = %+v", doc.Uncategorized)
	}
}

func TestShowTotals_BadFormat(t *testing.T) {
	deps, _, stderr, exitCode := setupTestDeps(t)

	ShowTotals(ctx, deps, "csv")

	if *exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *exitCode)
	}
	assertContains(t, stderr, "unknown output format")
}

func TestShowWeek(t *testing.T) {
	d := seedWeek(t)

	ShowWeek(ctx, d.deps, false, "")

	if *d.exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *d.exitCode)
	}
	assertContains(t, d.stdout, "Week of Jan 15 - Jan 21, 2024:", "Mon Jan 15", "1h 30m",
		"By project:", "66.7%", "33.3%")
}

func TestShowWeek_Last(t *testing.T) {
	d := seedWeek(t)

	ShowWeek(ctx, d.deps, true, "")

	assertContains(t, d.stdout, "Week of Jan 8 - Jan 14, 2024:", "Wed Jan 10", "100.0%")
}

func TestShowWeek_Empty(t *testing.T) {
	deps, stdout, _, _ := setupTestDeps(t)

	ShowWeek(ctx, deps, false, "text")

	assertContains(t, stdout, "No sessions for Jan 15 - Jan 21, 2024")
}

func TestShowWeek_YAML(t *testing.T) {
	d := seedWeek(t)

	ShowWeek(ctx, d.deps, false, "yaml")

	var doc weekDoc
	if err := yaml.Unmarshal(d.stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML output: %v\n%s", err, d.stdout.String())
	}
	if doc.Start != "2024-01-15" || doc.End != "2024-01-21" {
		t.Errorf("week = %s - %s", doc.Start, doc.End)
	}
	if len(doc.Days) != 7 || doc.Days[0].Total.Seconds != int64((90*time.Minute)/time.Second) {
		t.Errorf("days = %+v", doc.Days)
	}
	if doc.Total.Text != "1h 30m" {
		t.Errorf("total = %+v", doc.Total)
	}
}
