package router

import (
	"fmt"
	"strings"

	"github.com/desertthunder/boxoffice/internal/shared"
)

// Paths the guard redirects to.
const (
	HomePath  = "/"
	LoginPath = "/login"
)

// Route is a navigable view. Path segments starting with ':' are parameters.
type Route struct {
	Name          string
	Path          string
	RequiresAuth  bool
	RequiresAdmin bool
}

// Validate rejects routes that can never be evaluated consistently.
func (r Route) Validate() error {
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("%w: path %q must start with /", shared.ErrInvalidRoute, r.Path)
	}
	if r.RequiresAdmin && !r.RequiresAuth {
		return fmt.Errorf("%w: %s requires admin but not auth", shared.ErrInvalidRoute, r.Path)
	}
	return nil
}

// Table is a validated set of routes.
type Table struct {
	routes []Route
}

// NewTable validates routes. Duplicate paths are rejected.
func NewTable(routes ...Route) (*Table, error) {
	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		key := pattern(r.Path)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate path %s", shared.ErrInvalidRoute, r.Path)
		}
		seen[key] = true
	}
	return &Table{routes: append([]Route(nil), routes...)}, nil
}

// Routes returns the table in declaration order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Match finds the route for a concrete path and extracts its parameters. Query strings are ignored and a
// trailing slash is not significant.
func (t *Table) Match(path string) (Route, map[string]string, bool) {
	path, _, _ = strings.Cut(path, "?")
	segments := split(path)

	for _, r := range t.routes {
		if params, ok := matchSegments(split(r.Path), segments); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Build fills the parameters of a route path.
func Build(path string, params map[string]string) string {
	segments := split(path)
	for i, seg := range segments {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segments[i] = params[name]
		}
	}
	return "/" + strings.Join(segments, "/")
}

func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}

	params := map[string]string{}
	for i, seg := range pattern {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if path[i] == "" {
				return nil, false
			}
			params[name] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}

// pattern normalizes parameter names so /a/:x and /a/:y count as the same path.
func pattern(path string) string {
	segments := split(path)
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = ":"
		}
	}
	return strings.Join(segments, "/")
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
