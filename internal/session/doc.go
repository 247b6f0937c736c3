// Package session stores who is signed in.
//
// A [Store] owns the bearer credential and the cached [models.Identity]. It keeps them in memory and in a
// durable [Storage] under two fixed keys ([CredentialKey], [IdentityKey]). One Store is built at startup and
// passed to every component that needs it; only the auth controller mutates it, everyone else receives the
// read-only [View].
//
// # Invariants
//
//   - An identity is never held without a credential. The converse is allowed: a credential whose profile
//     has not been fetched yet still counts as authenticated.
//   - Persisted data is parsed only in [Store.Load]. Corrupted records are removed and reported as
//     [shared.ErrMalformedSession]; consumers never see a raw or half-parsed identity.
//
// # Observation
//
// [Store.Subscribe] delivers the current [Snapshot] immediately and every later change synchronously, in
// subscription order, once the change has been persisted. Mutations that leave the state unchanged (such as
// a second logout) do not notify.
package session
