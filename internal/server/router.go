package server

import (
	"net/http"
)

// BasicRouter is a minimal [Router] backed by [http.ServeMux].
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method and path. Other methods on path get 405 from the mux.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(method+" "+path, r.Apply(handler))
}

// Handler registers every route reported by handler for GET.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)
	for _, route := range handler.Routes() {
		r.mux.Handle(http.MethodGet+" "+route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware, first added outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}
