package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
)

type memoryCache struct {
	entries map[string]*models.TMDBMovie
	getErr  error
	puts    int
}

func (m *memoryCache) Get(query string) (*models.TMDBMovie, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	movie, ok := m.entries[query]
	return movie, ok, nil
}

func (m *memoryCache) Put(query string, movie *models.TMDBMovie) error {
	m.puts++
	m.entries[query] = movie
	return nil
}

func TestTMDBClient(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)

	t.Run("SearchMovie", func(t *testing.T) {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			if r.URL.Path != "/search/movie" {
				t.Errorf("expected /search/movie, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("query") != "Heat" || r.URL.Query().Get("api_key") != "k" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"results":[{"id":949,"title":"Heat","vote_average":7.9},{"id":1,"title":"Heat 2"}]}`))
		}))
		defer server.Close()

		cache := &memoryCache{entries: map[string]*models.TMDBMovie{}}
		client := NewTMDBClient("k", server.URL, nil, cache, logger)

		movie := client.SearchMovie(ctx, "Heat")
		if movie == nil || movie.ID != 949 {
			t.Fatalf("expected first match, got %#v", movie)
		}
		if cache.puts != 1 {
			t.Errorf("expected result to be cached, got %d puts", cache.puts)
		}

		if again := client.SearchMovie(ctx, "Heat"); again == nil || again.ID != 949 {
			t.Errorf("expected cached result, got %#v", again)
		}
		if hits != 1 {
			t.Errorf("expected a single upstream request, got %d", hits)
		}
	})

	t.Run("Failures Yield Nil", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		if movie := NewTMDBClient("k", server.URL, nil, nil, logger).SearchMovie(ctx, "Heat"); movie != nil {
			t.Errorf("expected nil, got %#v", movie)
		}
	})

	t.Run("No Results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		}))
		defer server.Close()

		cache := &memoryCache{entries: map[string]*models.TMDBMovie{}}
		if movie := NewTMDBClient("k", server.URL, nil, cache, logger).SearchMovie(ctx, "zzz"); movie != nil {
			t.Errorf("expected nil, got %#v", movie)
		}
		if cache.puts != 0 {
			t.Error("expected misses not to be cached")
		}
	})

	t.Run("Cache Read Failure Falls Through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"id":2,"title":"Alien"}]}`))
		}))
		defer server.Close()

		cache := &memoryCache{entries: map[string]*models.TMDBMovie{}, getErr: errors.New("locked")}
		if movie := NewTMDBClient("k", server.URL, nil, cache, logger).SearchMovie(ctx, "Alien"); movie == nil {
			t.Error("expected upstream result")
		}
	})

	t.Run("Missing API Key", func(t *testing.T) {
		if movie := NewTMDBClient("", "http://127.0.0.1:1", nil, nil, logger).SearchMovie(ctx, "Heat"); movie != nil {
			t.Error("expected nil without api key")
		}
	})
}
