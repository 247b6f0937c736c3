package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
)

// DefaultTMDBCacheTTL is how long a search result is reused before TMDB is asked again.
const DefaultTMDBCacheTTL = 7 * 24 * time.Hour

// TMDBCacheRepository caches TMDB search results keyed by normalized title.
type TMDBCacheRepository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewTMDBCacheRepository creates a cache with the given TTL (defaults to [DefaultTMDBCacheTTL]).
func NewTMDBCacheRepository(db *sql.DB, ttl time.Duration) *TMDBCacheRepository {
	if ttl <= 0 {
		ttl = DefaultTMDBCacheTTL
	}
	return &TMDBCacheRepository{db: db, ttl: ttl, now: time.Now}
}

// Get returns the cached result for query. ok is false on a miss or when the entry has expired.
func (r *TMDBCacheRepository) Get(query string) (movie *models.TMDBMovie, ok bool, err error) {
	var payload string
	var expiresAt time.Time

	err = r.db.QueryRow(
		"SELECT payload, expires_at FROM tmdb_cache WHERE query = ?", normalizeQuery(query),
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query tmdb cache: %w", err)
	}

	if !r.now().Before(expiresAt) {
		return nil, false, nil
	}

	var m models.TMDBMovie
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached movie: %w", err)
	}
	return &m, true, nil
}

// Put stores movie as the result for query, replacing any previous entry.
func (r *TMDBCacheRepository) Put(query string, movie *models.TMDBMovie) error {
	if movie == nil {
		return fmt.Errorf("cannot cache nil movie")
	}

	payload, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("failed to encode movie: %w", err)
	}

	now := r.now().UTC()
	_, err = r.db.Exec(`
		INSERT INTO tmdb_cache (id, query, tmdb_id, payload, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			tmdb_id = excluded.tmdb_id,
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, shared.GenerateID(), normalizeQuery(query), movie.ID, string(payload), now, now.Add(r.ttl))
	if err != nil {
		return fmt.Errorf("failed to cache movie: %w", err)
	}
	return nil
}

// Purge removes expired entries and returns how many were deleted.
func (r *TMDBCacheRepository) Purge() (int64, error) {
	result, err := r.db.Exec("DELETE FROM tmdb_cache WHERE expires_at <= ?", r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge tmdb cache: %w", err)
	}
	return result.RowsAffected()
}
