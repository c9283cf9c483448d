package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/timer"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore is the Store backed by a SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	q    querier
	inTx bool
}

// OpenSQLite opens (creating if needed) the database at dbPath and applies the schema.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_fk=1&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, q: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.inTx {
		return nil
	}
	return s.db.Close()
}

// WithTx runs fn inside a single database transaction.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&SQLiteStore{db: s.db, q: tx, inTx: true}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Categories

func (s *SQLiteStore) CreateCategory(ctx context.Context, c entry.Category) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Color, c.CreatedAt.UnixNano())
	return mapError(err)
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, c entry.Category) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ? WHERE id = ?`,
		c.Name, c.Color, c.ID)
	return affected(res, err)
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if isForeignKey(err) {
		return fmt.Errorf("%w: %v", ErrCategoryInUse, err)
	}
	return affected(res, err)
}

func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (entry.Category, error) {
	row := s.q.QueryRowContext(ctx, `SELECT id, name, color, created_at FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

func (s *SQLiteStore) FindCategoryByName(ctx context.Context, name string) (entry.Category, error) {
	row := s.q.QueryRowContext(ctx, `SELECT id, name, color, created_at FROM categories WHERE name = ?`, name)
	return scanCategory(row)
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]entry.Category, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, name, color, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []entry.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Projects

const projectColumns = `id, name, category_id, created_at`

func (s *SQLiteStore) CreateProject(ctx context.Context, p entry.Project) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO projects (id, name, category_id, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, nullString(p.CategoryID), p.CreatedAt.UnixNano())
	if isForeignKey(err) {
		return fmt.Errorf("category: %w", ErrNotFound)
	}
	return mapError(err)
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, p entry.Project) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE projects SET name = ?, category_id = ? WHERE id = ?`,
		p.Name, nullString(p.CategoryID), p.ID)
	if isForeignKey(err) {
		return fmt.Errorf("category: %w", ErrNotFound)
	}
	return affected(res, err)
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return affected(res, err)
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (entry.Project, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (s *SQLiteStore) FindProjectByName(ctx context.Context, name string) (entry.Project, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = ?`, name)
	return scanProject(row)
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]entry.Project, error) {
	return s.queryProjects(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY name`)
}

func (s *SQLiteStore) ListProjectsByCategory(ctx context.Context, categoryID string) ([]entry.Project, error) {
	return s.queryProjects(ctx, `SELECT `+projectColumns+` FROM projects WHERE category_id = ? ORDER BY name`, categoryID)
}

func (s *SQLiteStore) queryProjects(ctx context.Context, query string, args ...any) ([]entry.Project, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []entry.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Sessions

const sessionColumns = `id, project_id, start_at, end_at, last_resume_at, elapsed_ns`

func (s *SQLiteStore) CreateSession(ctx context.Context, ws timer.Session) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		ws.ID, ws.ProjectID, ws.Start.UnixNano(), nullTime(ws.End), nullTime(ws.LastResume), int64(ws.ElapsedBeforePause))
	if isForeignKey(err) {
		return fmt.Errorf("project: %w", ErrNotFound)
	}
	return mapError(err)
}

func (s *SQLiteStore) UpdateSession(ctx context.Context, ws timer.Session) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE sessions SET project_id = ?, start_at = ?, end_at = ?, last_resume_at = ?, elapsed_ns = ? WHERE id = ?`,
		ws.ProjectID, ws.Start.UnixNano(), nullTime(ws.End), nullTime(ws.LastResume), int64(ws.ElapsedBeforePause), ws.ID)
	return affected(res, err)
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return affected(res, err)
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (timer.Session, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (s *SQLiteStore) ListSessionsByProject(ctx context.Context, projectID string) ([]timer.Session, error) {
	return s.querySessions(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE project_id = ? ORDER BY start_at`, projectID)
}

func (s *SQLiteStore) ListSessionsInRange(ctx context.Context, from, to time.Time) ([]timer.Session, error) {
	return s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE start_at >= ? AND start_at < ? ORDER BY start_at`,
		from.UnixNano(), to.UnixNano())
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]timer.Session, error) {
	return s.querySessions(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_at`)
}

func (s *SQLiteStore) ListOpenSessions(ctx context.Context) ([]timer.Session, error) {
	return s.querySessions(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE end_at IS NULL ORDER BY start_at`)
}

func (s *SQLiteStore) querySessions(ctx context.Context, query string, args ...any) ([]timer.Session, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []timer.Session{}
	for rows.Next() {
		ws, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, ws)
	}
	return sessions, rows.Err()
}

// Scanning and conversion helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (entry.Category, error) {
	var c entry.Category
	var created int64
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &created); err != nil {
		return entry.Category{}, notFound(err)
	}
	c.CreatedAt = time.Unix(0, created)
	return c, nil
}

func scanProject(row scanner) (entry.Project, error) {
	var p entry.Project
	var categoryID sql.NullString
	var created int64
	if err := row.Scan(&p.ID, &p.Name, &categoryID, &created); err != nil {
		return entry.Project{}, notFound(err)
	}
	if categoryID.Valid {
		id := categoryID.String
		p.CategoryID = &id
	}
	p.CreatedAt = time.Unix(0, created)
	return p, nil
}

func scanSession(row scanner) (timer.Session, error) {
	var ws timer.Session
	var start, elapsed int64
	var end, lastResume sql.NullInt64
	if err := row.Scan(&ws.ID, &ws.ProjectID, &start, &end, &lastResume, &elapsed); err != nil {
		return timer.Session{}, notFound(err)
	}
	ws.Start = time.Unix(0, start)
	ws.End = timeFromNull(end)
	ws.LastResume = timeFromNull(lastResume)
	ws.ElapsedBeforePause = time.Duration(elapsed)
	return ws, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func timeFromNull(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(0, n.Int64)
	return &t
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// affected maps a write result to ErrNotFound when no row matched.
func affected(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// mapError translates uniqueness failures into ErrDuplicateName.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrDuplicateName, err)
		}
	}
	return err
}

func isForeignKey(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
