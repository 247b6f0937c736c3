// Package models defines the entities exchanged with the cinema booking backend.
//
// Catalogue types: [Movie], [Genre], [Theatre], [Showtime].
//
// Account types:
//   - [Identity] : the cached profile held by the session store, filled in incrementally
//   - [Account] : the full record returned by account and admin endpoints
//   - [Booking], [Notification]
//
// Backend IDs are decoded into [ID], which accepts JSON strings and numbers.
//
// Persisted identities use isAdmin as the canonical admin flag. Records written with the legacy is_admin
// casing are still read by [DecodeIdentity], which reports them so they can be rewritten.
package models
