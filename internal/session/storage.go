package session

import "sync"

// Keys under which the session is persisted.
const (
	CredentialKey = "token"
	IdentityKey   = "user"
)

// Storage is the durable backend for the session. Save and Remove must apply all keys atomically.
//
// [repositories.LocalStorageRepository] is the SQLite implementation.
type Storage interface {
	Load(keys ...string) (map[string]string, error)
	Save(entries map[string]string) error
	Remove(keys ...string) error
}

// MemoryStorage is a [Storage] that lives only as long as the process.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryStorage creates an empty [MemoryStorage], optionally seeded with entries.
func NewMemoryStorage(seed map[string]string) *MemoryStorage {
	entries := make(map[string]string, len(seed))
	for k, v := range seed {
		entries[k] = v
	}
	return &MemoryStorage{entries: entries}
}

func (m *MemoryStorage) Load(keys ...string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.entries[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryStorage) Save(entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

func (m *MemoryStorage) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}
