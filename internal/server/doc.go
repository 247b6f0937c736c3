// Package server runs the short-lived loopback HTTP server used by sign-in flows.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux] with a [Middleware] stack; middleware added first runs first. Handlers
// implementing [Handler] register every path they report through Routes.
//
// # Callbacks
//
// [CodeHandler] completes an OAuth2 authorization-code flow against the identity provider: it checks the
// state parameter, exchanges the code and delivers the token on its Result channel.
//
// [RedirectHandler] receives the booking backend's own redirect, which carries either ?token= or ?error=.
// It delivers the callback URL and immediately redirects the browser to the same path without those
// parameters, so the credential does not stay in the address bar or history. Replays of the stripped URL
// deliver nothing.
//
// Both handlers process a single callback. [Listen] serves them until the flow's context ends.
package server
