package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/timer"
)

var base = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

// eachStore runs fn against every Store implementation.
func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), DatabaseFile))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})

	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
}

func strPtr(s string) *string { return &s }

func seed(t *testing.T, s Store) (entry.Category, entry.Project) {
	t.Helper()
	ctx := context.Background()

	cat := entry.Category{ID: "c1", Name: "Clients", Color: "#FF0000", CreatedAt: base}
	require.NoError(t, s.CreateCategory(ctx, cat))

	proj := entry.Project{ID: "p1", Name: "Acme", CategoryID: strPtr(cat.ID), CreatedAt: base}
	require.NoError(t, s.CreateProject(ctx, proj))

	return cat, proj
}

func TestCategoryCRUD(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		cat, _ := seed(t, s)

		got, err := s.GetCategory(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, "Clients", got.Name)
		assert.True(t, got.CreatedAt.Equal(base))

		cat.Name = "Customers"
		cat.Color = "#00FF00"
		require.NoError(t, s.UpdateCategory(ctx, cat))

		byName, err := s.FindCategoryByName(ctx, "Customers")
		require.NoError(t, err)
		assert.Equal(t, "#00FF00", byName.Color)

		_, err = s.FindCategoryByName(ctx, "Clients")
		assert.ErrorIs(t, err, ErrNotFound)

		err = s.UpdateCategory(ctx, entry.Category{ID: "missing", Name: "x", Color: "#000000"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCategory_DuplicateName(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seed(t, s)

		err := s.CreateCategory(ctx, entry.Category{ID: "c2", Name: "Clients", Color: "#000000", CreatedAt: base})
		assert.ErrorIs(t, err, ErrDuplicateName)
	})
}

func TestDeleteCategory_RefusedWhileProjectsReferenceIt(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		cat, proj := seed(t, s)

		err := s.DeleteCategory(ctx, cat.ID)
		assert.ErrorIs(t, err, ErrCategoryInUse)

		proj.CategoryID = nil
		require.NoError(t, s.UpdateProject(ctx, proj))
		require.NoError(t, s.DeleteCategory(ctx, cat.ID))

		categories, err := s.ListCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, categories)

		assert.ErrorIs(t, s.DeleteCategory(ctx, cat.ID), ErrNotFound)
	})
}

func TestProjects(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		cat, proj := seed(t, s)

		require.NoError(t, s.CreateProject(ctx, entry.Project{ID: "p2", Name: "Internal", CreatedAt: base}))

		err := s.CreateProject(ctx, entry.Project{ID: "p3", Name: "Acme", CreatedAt: base})
		assert.ErrorIs(t, err, ErrDuplicateName)

		err = s.CreateProject(ctx, entry.Project{ID: "p4", Name: "Ghost", CategoryID: strPtr("nope"), CreatedAt: base})
		assert.ErrorIs(t, err, ErrNotFound)

		all, err := s.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Acme", all[0].Name)
		assert.Equal(t, "Internal", all[1].Name)
		assert.False(t, all[1].HasCategory())

		inCat, err := s.ListProjectsByCategory(ctx, cat.ID)
		require.NoError(t, err)
		require.Len(t, inCat, 1)
		assert.Equal(t, proj.ID, inCat[0].ID)

		got, err := s.FindProjectByName(ctx, "Acme")
		require.NoError(t, err)
		require.NotNil(t, got.CategoryID)
		assert.Equal(t, cat.ID, *got.CategoryID)
	})
}

func TestDeleteProject_CascadesSessions(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, proj := seed(t, s)

		logged, err := timer.NewLogged("s1", proj.ID, base, base.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, s.CreateSession(ctx, logged))
		require.NoError(t, s.CreateSession(ctx, timer.New("s2", proj.ID, base.Add(2*time.Hour))))

		require.NoError(t, s.DeleteProject(ctx, proj.ID))

		sessions, err := s.ListSessions(ctx)
		require.NoError(t, err)
		assert.Empty(t, sessions)

		_, err = s.GetProject(ctx, proj.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSessions_RoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, proj := seed(t, s)

		ws := timer.New("s1", proj.ID, base)
		require.NoError(t, s.CreateSession(ctx, ws))

		_, err := ws.Pause(base.Add(30 * time.Second))
		require.NoError(t, err)
		require.NoError(t, s.UpdateSession(ctx, ws))

		got, err := s.GetSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, timer.StatePaused, got.State())
		assert.Equal(t, 30*time.Second, got.ElapsedBeforePause)
		assert.Nil(t, got.LastResume)
		assert.Nil(t, got.End)
		assert.True(t, got.Start.Equal(base))

		_, err = got.Resume(base.Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, got.Stop(base.Add(2*time.Minute)))
		require.NoError(t, s.UpdateSession(ctx, got))

		stopped, err := s.GetSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, timer.StateStopped, stopped.State())
		require.NotNil(t, stopped.End)
		assert.True(t, stopped.End.Equal(base.Add(2*time.Minute)))
		assert.Equal(t, 90*time.Second, stopped.CurrentDuration(base.Add(time.Hour)))

		assert.ErrorIs(t, s.UpdateSession(ctx, timer.New("missing", proj.ID, base)), ErrNotFound)
		assert.ErrorIs(t, s.CreateSession(ctx, timer.New("s9", "no-project", base)), ErrNotFound)
	})
}

func TestSessions_Queries(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, proj := seed(t, s)
		require.NoError(t, s.CreateProject(ctx, entry.Project{ID: "p2", Name: "Other", CreatedAt: base}))

		for i, start := range []time.Time{base, base.Add(24 * time.Hour), base.Add(48 * time.Hour)} {
			ws, err := timer.NewLogged("closed-"+string(rune('a'+i)), proj.ID, start, start.Add(time.Hour))
			require.NoError(t, err)
			require.NoError(t, s.CreateSession(ctx, ws))
		}
		require.NoError(t, s.CreateSession(ctx, timer.New("open", "p2", base.Add(72*time.Hour))))

		inRange, err := s.ListSessionsInRange(ctx, base, base.Add(48*time.Hour))
		require.NoError(t, err)
		require.Len(t, inRange, 2)
		assert.Equal(t, "closed-a", inRange[0].ID)
		assert.Equal(t, "closed-b", inRange[1].ID)

		byProject, err := s.ListSessionsByProject(ctx, proj.ID)
		require.NoError(t, err)
		assert.Len(t, byProject, 3)

		open, err := s.ListOpenSessions(ctx)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, "open", open[0].ID)

		require.NoError(t, s.DeleteSession(ctx, "open"))
		assert.ErrorIs(t, s.DeleteSession(ctx, "open"), ErrNotFound)
	})
}

func TestWithTx(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, proj := seed(t, s)
		boom := errors.New("boom")

		err := s.WithTx(ctx, func(tx Store) error {
			require.NoError(t, tx.CreateSession(ctx, timer.New("rolled-back", proj.ID, base)))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = s.GetSession(ctx, "rolled-back")
		assert.ErrorIs(t, err, ErrNotFound)

		err = s.WithTx(ctx, func(tx Store) error {
			return tx.CreateSession(ctx, timer.New("committed", proj.ID, base))
		})
		require.NoError(t, err)

		_, err = s.GetSession(ctx, "committed")
		assert.NoError(t, err)
	})
}

func TestOpenSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DatabaseFile)

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	seed(t, s)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	projects, err := s.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestGetStoragePath_Override(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	path, err := GetStoragePath(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DatabaseFile), path)
	assert.DirExists(t, dir)
}
