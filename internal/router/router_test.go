package router

import (
	"bytes"
	"errors"
	"testing"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/session"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	t.Run("admin without auth is rejected", func(t *testing.T) {
		_, err := NewTable(Route{Name: "bad", Path: "/admin/x", RequiresAdmin: true})
		assert.ErrorIs(t, err, shared.ErrInvalidRoute)
	})

	t.Run("duplicate paths are rejected", func(t *testing.T) {
		_, err := NewTable(Route{Path: "/movies/:id"}, Route{Path: "/movies/:movieId"})
		assert.ErrorIs(t, err, shared.ErrInvalidRoute)
	})

	t.Run("relative path is rejected", func(t *testing.T) {
		_, err := NewTable(Route{Path: "movies"})
		assert.ErrorIs(t, err, shared.ErrInvalidRoute)
	})

	t.Run("default routes are valid", func(t *testing.T) {
		table, err := NewTable(DefaultRoutes()...)
		require.NoError(t, err)
		for _, r := range table.Routes() {
			if r.RequiresAdmin {
				assert.True(t, r.RequiresAuth, r.Path)
			}
		}
	})

	t.Run("Match", func(t *testing.T) {
		table := DefaultTable()

		tests := []struct {
			path   string
			want   string
			params map[string]string
		}{
			{"/", MoviesPath, map[string]string{}},
			{"/movies/42", MoviePath, map[string]string{"id": "42"}},
			{"/booking/7?seats=2", BookingPath, map[string]string{"showtimeId": "7"}},
			{"/admin/movies/", AdminMoviesPath, map[string]string{}},
		}
		for _, tt := range tests {
			route, params, ok := table.Match(tt.path)
			require.True(t, ok, tt.path)
			assert.Equal(t, tt.want, route.Path)
			assert.Equal(t, tt.params, params)
		}

		_, _, ok := table.Match("/movies")
		assert.False(t, ok)
		_, _, ok = table.Match("/nowhere/at/all")
		assert.False(t, ok)
	})

	t.Run("Build", func(t *testing.T) {
		assert.Equal(t, "/booking/9", Build(BookingPath, map[string]string{"showtimeId": "9"}))
		assert.Equal(t, "/", Build(MoviesPath, nil))
	})
}

// brokenView is a session view whose storage cannot be read.
type brokenView struct {
	session.View
	err   error
	panic bool
}

func (b brokenView) Sync() error {
	if b.panic {
		panic("storage exploded")
	}
	return b.err
}

func newGuard(t *testing.T, seed map[string]string) (*Guard, *session.Store, *session.MemoryStorage) {
	t.Helper()
	logger := shared.NewLogger(&bytes.Buffer{})
	storage := session.NewMemoryStorage(seed)
	store := session.NewStore(storage, logger)
	return NewGuard(DefaultTable(), store, logger), store, storage
}

func TestGuard(t *testing.T) {
	t.Run("public routes never consult the session", func(t *testing.T) {
		logger := shared.NewLogger(&bytes.Buffer{})
		guard := NewGuard(DefaultTable(), brokenView{panic: true}, logger)

		d := guard.Navigate("/movies/3")
		assert.True(t, d.Allowed)
		assert.Equal(t, "3", d.Params["id"])
	})

	t.Run("signed out goes to login", func(t *testing.T) {
		guard, _, _ := newGuard(t, nil)

		d := guard.Navigate(BookingsPath)
		assert.False(t, d.Allowed)
		assert.Equal(t, LoginPath, d.Redirect)
	})

	t.Run("signed in is allowed", func(t *testing.T) {
		guard, store, _ := newGuard(t, nil)
		require.NoError(t, store.SetSession("cred", &models.Identity{ID: "1"}))

		d := guard.Navigate("/booking/4")
		assert.True(t, d.Allowed)
		assert.Equal(t, "4", d.Params["showtimeId"])
	})

	t.Run("credential without identity is allowed on auth routes", func(t *testing.T) {
		guard, _, _ := newGuard(t, map[string]string{session.CredentialKey: "cred"})
		assert.True(t, guard.Navigate(AccountPath).Allowed)
	})

	t.Run("non admin is denied admin routes", func(t *testing.T) {
		guard, store, _ := newGuard(t, nil)
		require.NoError(t, store.SetSession("cred", &models.Identity{ID: "1", IsAdmin: false}))

		d := guard.Navigate(AdminAccountsPath)
		assert.False(t, d.Allowed)
		assert.Equal(t, HomePath, d.Redirect)
		assert.Equal(t, AdminDeniedNotice, d.Notice)
	})

	t.Run("admin without cached identity is denied", func(t *testing.T) {
		guard, _, _ := newGuard(t, map[string]string{session.CredentialKey: "cred"})

		d := guard.Navigate(AdminMoviesPath)
		assert.False(t, d.Allowed)
		assert.Equal(t, HomePath, d.Redirect)
	})

	t.Run("admin is allowed", func(t *testing.T) {
		guard, store, _ := newGuard(t, nil)
		require.NoError(t, store.SetSession("cred", &models.Identity{ID: "1", IsAdmin: true}))
		assert.True(t, guard.Navigate(AdminShowtimesPath).Allowed)
	})

	t.Run("legacy admin flag is honored", func(t *testing.T) {
		guard, _, _ := newGuard(t, map[string]string{
			session.CredentialKey: "cred",
			session.IdentityKey:   `{"id":1,"email":"root@example.com","is_admin":true}`,
		})
		assert.True(t, guard.Navigate(AdminMoviesPath).Allowed)
	})

	t.Run("corrupted session is cleared and redirected", func(t *testing.T) {
		guard, store, storage := newGuard(t, map[string]string{
			session.CredentialKey: "cred",
			session.IdentityKey:   `{not json`,
		})

		d := guard.Navigate(BookingsPath)
		assert.False(t, d.Allowed)
		assert.Equal(t, LoginPath, d.Redirect)
		assert.False(t, store.IsAuthenticated())

		entries, _ := storage.Load(session.CredentialKey, session.IdentityKey)
		assert.Empty(t, entries)
	})

	t.Run("logout in another process is noticed", func(t *testing.T) {
		guard, store, storage := newGuard(t, nil)
		require.NoError(t, store.SetSession("cred", &models.Identity{ID: "1"}))
		require.NoError(t, storage.Remove(session.CredentialKey, session.IdentityKey))

		assert.Equal(t, LoginPath, guard.Navigate(BookingsPath).Redirect)
	})

	t.Run("storage failure", func(t *testing.T) {
		logger := shared.NewLogger(&bytes.Buffer{})
		guard := NewGuard(DefaultTable(), brokenView{err: errors.New("disk gone")}, logger)

		d := guard.Navigate(BookingsPath)
		assert.False(t, d.Allowed)
		assert.Equal(t, LoginPath, d.Redirect)
	})

	t.Run("panicking storage", func(t *testing.T) {
		logger := shared.NewLogger(&bytes.Buffer{})
		guard := NewGuard(DefaultTable(), brokenView{panic: true}, logger)

		assert.NotPanics(t, func() {
			d := guard.Navigate(AccountPath)
			assert.Equal(t, LoginPath, d.Redirect)
		})
	})

	t.Run("unknown path goes home", func(t *testing.T) {
		guard, _, _ := newGuard(t, nil)

		d := guard.Navigate("/does/not/exist")
		assert.False(t, d.Allowed)
		assert.Equal(t, HomePath, d.Redirect)
	})
}
