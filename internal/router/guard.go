package router

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/session"
	"github.com/desertthunder/boxoffice/internal/shared"
)

// AdminDeniedNotice is shown when a signed-in user without admin rights opens an admin view.
const AdminDeniedNotice = "Admin access required"

// Decision is the outcome of a navigation attempt. When Allowed is false, Redirect names where to go instead.
type Decision struct {
	Allowed  bool
	Redirect string
	Notice   string
	Route    Route
	Params   map[string]string
}

// Guard decides whether navigation may proceed based on the session.
type Guard struct {
	table   *Table
	session session.View
	logger  *log.Logger
}

// NewGuard creates a guard over table.
func NewGuard(table *Table, view session.View, logger *log.Logger) *Guard {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Guard{table: table, session: view, logger: shared.WithLogger(logger, "component", "guard")}
}

// Table returns the routes the guard knows.
func (g *Guard) Table() *Table {
	return g.table
}

// Evaluate checks route against the session, re-reading storage first so changes made by another process
// are seen. It never panics.
func (g *Guard) Evaluate(route Route) (d Decision) {
	d = Decision{Route: route}
	if !route.RequiresAuth {
		d.Allowed = true
		return d
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("guard failed, treating as signed out", "route", route.Path, "panic", r)
			d = Decision{Route: route, Redirect: LoginPath}
		}
	}()

	if err := g.session.Sync(); err != nil {
		if errors.Is(err, shared.ErrMalformedSession) {
			g.logger.Warn("session data was corrupted and has been cleared", "error", err)
		} else {
			g.logger.Error("failed to read session, treating as signed out", "error", err)
		}
		d.Redirect = LoginPath
		return d
	}

	if !g.session.IsAuthenticated() {
		d.Redirect = LoginPath
		return d
	}

	if route.RequiresAdmin {
		identity := g.session.Current()
		if identity == nil || !identity.IsAdmin {
			g.logger.Info("admin route denied", "route", route.Path)
			d.Redirect = HomePath
			d.Notice = AdminDeniedNotice
			return d
		}
	}

	d.Allowed = true
	return d
}

// Navigate matches path and evaluates the route. Unknown paths redirect home.
func (g *Guard) Navigate(path string) Decision {
	route, params, ok := g.table.Match(path)
	if !ok {
		g.logger.Debug("unknown path, redirecting home", "path", path)
		return Decision{Redirect: HomePath}
	}

	d := g.Evaluate(route)
	d.Params = params
	return d
}
