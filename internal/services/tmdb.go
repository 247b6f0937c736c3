package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
)

const defaultTMDBBaseURL = "https://api.themoviedb.org/3"

// TMDBCache stores search results between runs. [repositories.TMDBCacheRepository] implements it.
type TMDBCache interface {
	Get(query string) (*models.TMDBMovie, bool, error)
	Put(query string, movie *models.TMDBMovie) error
}

// TMDBClient looks up movie metadata on The Movie Database.
type TMDBClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      TMDBCache
	logger     *log.Logger
}

// NewTMDBClient creates a client. cache and httpClient may be nil.
func NewTMDBClient(apiKey, baseURL string, httpClient *http.Client, cache TMDBCache, logger *log.Logger) *TMDBClient {
	if baseURL == "" {
		baseURL = defaultTMDBBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TMDBClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		cache:      cache,
		logger:     shared.WithLogger(logger, "component", "tmdb"),
	}
}

type tmdbSearchResponse struct {
	Results []models.TMDBMovie `json:"results"`
}

// SearchMovie returns the first TMDB match for title, or nil when nothing matched or the lookup failed.
// Failures are logged, never returned.
func (t *TMDBClient) SearchMovie(ctx context.Context, title string) *models.TMDBMovie {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	if t.apiKey == "" {
		t.logger.Debug("tmdb api key not configured, skipping lookup")
		return nil
	}

	if t.cache != nil {
		movie, ok, err := t.cache.Get(title)
		if err != nil {
			t.logger.Warn("tmdb cache read failed", "error", err)
		} else if ok {
			return movie
		}
	}

	movie, err := t.search(ctx, title)
	if err != nil {
		t.logger.Warn("tmdb lookup failed", "title", title, "error", err)
		return nil
	}
	if movie == nil {
		return nil
	}

	if t.cache != nil {
		if err := t.cache.Put(title, movie); err != nil {
			t.logger.Warn("tmdb cache write failed", "error", err)
		}
	}
	return movie
}

func (t *TMDBClient) search(ctx context.Context, title string) (*models.TMDBMovie, error) {
	params := url.Values{"api_key": {t.apiKey}, "query": {title}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/search/movie?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: tmdb status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	return &result.Results[0], nil
}
