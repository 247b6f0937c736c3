// Package router maps navigation paths to routes and guards them.
//
// Every CLI command and TUI view is bound to a [Route]. Before a view is shown the [Guard] evaluates its
// route against the session:
//
//   - public routes are always allowed
//   - otherwise the session is re-read from storage; corrupted data is cleared by the store and the user is
//     sent to /login
//   - a signed-out user is sent to /login
//   - a non-admin opening an admin route is sent home with [AdminDeniedNotice]
//
// A route can only require admin if it also requires auth; [NewTable] rejects anything else.
package router
