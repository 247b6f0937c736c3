package session

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
)

// Snapshot is the state delivered to observers.
type Snapshot struct {
	Authenticated bool
	Identity      *models.Identity
}

// Listener receives session snapshots.
type Listener func(Snapshot)

// View is the read-only side of the [Store] handed to consumers (route guard, UI, API client).
type View interface {
	Current() *models.Identity
	Credential() (string, bool)
	IsAuthenticated() bool
	Snapshot() Snapshot
	Subscribe(fn Listener) (unsubscribe func())
	Sync() error
}

type subscription struct {
	id int
	fn Listener
}

// Store owns the session: the bearer credential and the cached identity, in memory and in [Storage].
//
// Observers are notified synchronously, in subscription order, after a mutation has been persisted and
// applied in memory. Notifications run outside the store lock, so listeners may read the store. Mutations
// are serialized, so listeners must not write to it.
type Store struct {
	writeMu    sync.Mutex
	mu         sync.RWMutex
	storage    Storage
	logger     *log.Logger
	credential string
	identity   *models.Identity

	subMu  sync.Mutex
	subs   []subscription
	nextID int
}

var _ View = (*Store)(nil)

// NewStore creates an empty store over storage. Call [Store.Load] to restore a persisted session.
func NewStore(storage Storage, logger *log.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage(nil)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{storage: storage, logger: shared.WithLogger(logger, "component", "session")}
}

// Load reads the persisted credential and identity into memory.
//
// A malformed identity, or an identity stored without a credential, is removed from storage together with
// the credential; the store is left logged out and [shared.ErrMalformedSession] is returned.
// Identities written with the legacy is_admin casing are rewritten in canonical form.
func (s *Store) Load() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.storage.Load(CredentialKey, IdentityKey)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	credential := entries[CredentialKey]
	rawIdentity, hasIdentity := entries[IdentityKey]

	var identity *models.Identity
	var reason error
	if hasIdentity {
		var legacy bool
		identity, legacy, err = models.DecodeIdentity(rawIdentity)
		switch {
		case err != nil:
			reason = err
		case credential == "":
			reason = fmt.Errorf("identity stored without credential")
		case legacy:
			if err := s.migrateIdentity(identity); err != nil {
				s.logger.Warn("failed to rewrite legacy identity", "error", err)
			}
		}
	}

	if reason != nil {
		s.logger.Warn("discarding corrupted session", "reason", reason)
		if err := s.storage.Remove(CredentialKey, IdentityKey); err != nil {
			s.logger.Error("failed to remove corrupted session", "error", err)
		}
		s.apply("", nil)
		return fmt.Errorf("%w: %v", shared.ErrMalformedSession, reason)
	}

	s.apply(credential, identity)
	return nil
}

// Sync re-reads storage, picking up changes made by another process sharing it.
func (s *Store) Sync() error {
	return s.Load()
}

func (s *Store) migrateIdentity(identity *models.Identity) error {
	encoded, err := models.EncodeIdentity(identity)
	if err != nil {
		return err
	}
	s.logger.Info("migrating legacy identity record")
	return s.storage.Save(map[string]string{IdentityKey: encoded})
}

// SetSession persists credential and identity together and then notifies observers.
//
// identity may be nil for a credential without a cached profile, but never non-nil without a credential.
func (s *Store) SetSession(credential string, identity *models.Identity) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.setSession(credential, identity)
}

func (s *Store) setSession(credential string, identity *models.Identity) error {
	if credential == "" {
		return fmt.Errorf("%w: credential is required", shared.ErrInvalidSession)
	}

	entries := map[string]string{CredentialKey: credential}
	if identity != nil {
		encoded, err := models.EncodeIdentity(identity)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidSession, err)
		}
		entries[IdentityKey] = encoded
	} else if err := s.storage.Remove(IdentityKey); err != nil {
		return fmt.Errorf("failed to clear cached identity: %w", err)
	}

	if err := s.storage.Save(entries); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.apply(credential, identity.Clone())
	return nil
}

// UpdateIdentity merges update into the identity cached for credential. It fails with
// [shared.ErrSessionChanged] when the session no longer holds credential, e.g. after a logout or a new
// sign-in while the update was in flight.
func (s *Store) UpdateIdentity(credential string, update models.ProfileUpdate) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	current := s.credential
	merged := s.identity.Merge(update)
	s.mu.RUnlock()

	switch {
	case current == "":
		return fmt.Errorf("%w: cannot update identity without a credential", shared.ErrNotAuthenticated)
	case current != credential:
		return shared.ErrSessionChanged
	}
	return s.setSession(credential, merged)
}

// Clear removes the session from storage and memory. Clearing an empty session is a no-op for observers.
func (s *Store) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.clear()
}

// Revoke clears the session only while it still holds credential.
func (s *Store) Revoke(credential string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if current, _ := s.Credential(); current != credential {
		return shared.ErrSessionChanged
	}
	return s.clear()
}

func (s *Store) clear() error {
	if err := s.storage.Remove(CredentialKey, IdentityKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.apply("", nil)
	return nil
}

// Current returns a copy of the cached identity, or nil.
func (s *Store) Current() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// Credential returns the bearer credential and whether one is present.
func (s *Store) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != ""
}

// IsAuthenticated reports whether a credential is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Credential()
	return ok
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Authenticated: s.credential != "", Identity: s.identity.Clone()}
}

// Subscribe registers fn, delivers the current snapshot to it immediately, and returns a function that
// removes the subscription.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	fn(s.Snapshot())

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// apply swaps in the new state and notifies observers if it changed.
func (s *Store) apply(credential string, identity *models.Identity) {
	s.mu.Lock()
	changed := s.credential != credential || !sameIdentity(s.identity, identity)
	s.credential = credential
	s.identity = identity
	snap := Snapshot{Authenticated: credential != "", Identity: identity.Clone()}
	s.mu.Unlock()

	if changed {
		s.notify(snap)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(Snapshot{Authenticated: snap.Authenticated, Identity: snap.Identity.Clone()})
	}
}

func sameIdentity(a, b *models.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
