package handlers

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/timer"
)

// fail prints err with a hint for its kind and exits with status 1.
func fail(deps *cli.Deps, err error) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
	if hint := hintFor(err); hint != "" {
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: %s\n", hint)
	}
	deps.Exit(1)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return "Create it with 'punch project add <name>' or list projects with 'punch project list'"
	case errors.Is(err, service.ErrCategoryNotFound):
		return "List categories with 'punch category list'"
	case errors.Is(err, service.ErrNoOpenSession):
		return "Start a session with 'punch start <project>'"
	case errors.Is(err, service.ErrAmbiguousSession):
		return "Name the project, e.g. 'punch pause <project>' (see 'punch status')"
	case errors.Is(err, service.ErrAmbiguousID):
		return "Use more characters of the id (see 'punch sessions')"
	case errors.Is(err, service.ErrSessionNotFound):
		return "List sessions with 'punch sessions'"
	case errors.Is(err, service.ErrCategoryNotEmpty):
		return "Move its projects first with 'punch project assign <project> [category]'"
	case errors.Is(err, timer.ErrOpenSession):
		return "Stop or resume the open session first ('punch status' shows it)"
	case errors.Is(err, timer.ErrSessionStopped):
		return "Stopped sessions are final; start a new one with 'punch start <project>'"
	case errors.Is(err, timer.ErrStartInFuture):
		return "The start time must not be later than now"
	case errors.Is(err, entry.ErrInvalidDuration):
		return "Use a format like '1:30', '2h', '45m' or '1h30m' (max 24h)"
	case errors.Is(err, entry.ErrInvalidColor):
		return "Use a hex colour like '#FF8800'"
	}
	return ""
}

// check handles the error of a state-changing call. A persistence failure
// only warns: the change took effect and the result is still printed.
// It returns false when the command must stop.
func check(deps *cli.Deps, err error) bool {
	if err == nil {
		return true
	}
	if service.IsPersistenceError(err) {
		_, _ = fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
		if dir := deps.Services.Paths.DataDir; dir != "" {
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the data directory is writable: %s\n", dir)
		}
		return true
	}
	fail(deps, err)
	return false
}

// confirm asks a yes/no question on Stdin. Only 'y' or 'Y' confirms.
func confirm(deps *cli.Deps, question string) bool {
	_, _ = fmt.Fprintf(deps.Stdout, "%s [y/N]: ", question)

	scanner := bufio.NewScanner(deps.Stdin)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(scanner.Text())
	return response == "y" || response == "Y"
}
