// Package storage persists categories, projects and work sessions.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/osutil"
	"github.com/xolan/punch/internal/timer"
)

const (
	// AppName is the application name used for the data directory
	AppName = "punch"
	// DatabaseFile is the name of the SQLite database file
	DatabaseFile = "punch.db"
)

// Store errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("name already in use")
	ErrCategoryInUse = errors.New("category still owns projects")
)

// Store is the durable record store. Writes take effect immediately unless
// made inside WithTx, in which case they commit together or not at all.
type Store interface {
	CreateCategory(ctx context.Context, c entry.Category) error
	UpdateCategory(ctx context.Context, c entry.Category) error
	DeleteCategory(ctx context.Context, id string) error
	GetCategory(ctx context.Context, id string) (entry.Category, error)
	FindCategoryByName(ctx context.Context, name string) (entry.Category, error)
	ListCategories(ctx context.Context) ([]entry.Category, error)

	CreateProject(ctx context.Context, p entry.Project) error
	UpdateProject(ctx context.Context, p entry.Project) error
	// DeleteProject removes the project and every session it owns.
	DeleteProject(ctx context.Context, id string) error
	GetProject(ctx context.Context, id string) (entry.Project, error)
	FindProjectByName(ctx context.Context, name string) (entry.Project, error)
	ListProjects(ctx context.Context) ([]entry.Project, error)
	ListProjectsByCategory(ctx context.Context, categoryID string) ([]entry.Project, error)

	CreateSession(ctx context.Context, s timer.Session) error
	UpdateSession(ctx context.Context, s timer.Session) error
	DeleteSession(ctx context.Context, id string) error
	GetSession(ctx context.Context, id string) (timer.Session, error)
	// ListSessionsByProject returns the project's sessions ordered by start.
	ListSessionsByProject(ctx context.Context, projectID string) ([]timer.Session, error)
	// ListSessionsInRange returns sessions whose start is in [from, to), ordered by start.
	ListSessionsInRange(ctx context.Context, from, to time.Time) ([]timer.Session, error)
	ListSessions(ctx context.Context) ([]timer.Session, error)
	// ListOpenSessions returns every session without an end.
	ListOpenSessions(ctx context.Context) ([]timer.Session, error)

	// WithTx runs fn against a transactional view of the store.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Close() error
}

// GetStoragePath returns the path to the database file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory
// unless dataDir is set. Creates the directory if it doesn't exist.
func GetStoragePath(dataDir string) (string, error) {
	appDir, err := DataDir(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, DatabaseFile), nil
}

// DataDir resolves and creates the application data directory.
func DataDir(override string) (string, error) {
	appDir := override
	if appDir == "" {
		configDir, err := osutil.Provider.UserConfigDir()
		if err != nil {
			return "", err
		}
		appDir = filepath.Join(configDir, AppName)
	}

	// Create data directory if it doesn't exist
	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return appDir, nil
}
