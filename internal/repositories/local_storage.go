package repositories

import (
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// LocalStorageRepository is a durable string key/value store backed by the local_storage table.
//
// It satisfies session.Storage: multi-key writes and deletes run in a single transaction so readers never
// observe half of an update.
type LocalStorageRepository struct {
	db *sql.DB
}

// NewLocalStorageRepository creates a new [LocalStorageRepository] with the given database connection
func NewLocalStorageRepository(db *sql.DB) *LocalStorageRepository {
	return &LocalStorageRepository{db: db}
}

// Load returns the values stored under keys. Missing keys are absent from the result.
func (r *LocalStorageRepository) Load(keys ...string) (map[string]string, error) {
	entries := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return entries, nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	query := fmt.Sprintf("SELECT key, value FROM local_storage WHERE key IN (%s)", placeholders(len(keys)))
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query local storage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan local storage row: %w", err)
		}
		entries[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read local storage: %w", err)
	}
	return entries, nil
}

// Save upserts all entries atomically.
func (r *LocalStorageRepository) Save(entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	return withTx(r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`
		for _, k := range keys {
			if _, err := tx.Exec(query, k, entries[k], now); err != nil {
				return fmt.Errorf("failed to save %q: %w", k, err)
			}
		}
		return nil
	})
}

// Remove deletes keys atomically. Removing absent keys is not an error.
func (r *LocalStorageRepository) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	return withTx(r.db, func(tx *sql.Tx) error {
		query := fmt.Sprintf("DELETE FROM local_storage WHERE key IN (%s)", placeholders(len(keys)))
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to remove keys: %w", err)
		}
		return nil
	})
}
