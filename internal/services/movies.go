package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/desertthunder/boxoffice/internal/models"
)

// ListMovies returns the public movie listing. Failures are logged and yield an empty slice.
func (c *Client) ListMovies(ctx context.Context) []models.Movie {
	var movies []models.Movie
	if err := c.call(ctx, http.MethodGet, "/movies", nil, &movies); err != nil {
		c.fallback("ListMovies", err)
		return []models.Movie{}
	}
	return nonNil(movies)
}

// GetMovie returns a single movie.
func (c *Client) GetMovie(ctx context.Context, id models.ID) (*models.Movie, error) {
	var movie models.Movie
	if err := c.call(ctx, http.MethodGet, "/movies/"+escape(id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// CreateMovie adds a movie through the public endpoint.
func (c *Client) CreateMovie(ctx context.Context, movie models.Movie) (*models.Movie, error) {
	var created models.Movie
	if err := c.call(ctx, http.MethodPost, "/movies", movie, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListShowtimes returns showtimes, filtered to one movie when movieID is set. Failures are logged and yield
// an empty slice.
func (c *Client) ListShowtimes(ctx context.Context, movieID models.ID) []models.Showtime {
	path := "/showtimes"
	if movieID != "" {
		path += "?" + url.Values{"movieId": {movieID.String()}}.Encode()
	}

	var showtimes []models.Showtime
	if err := c.call(ctx, http.MethodGet, path, nil, &showtimes); err != nil {
		c.fallback("ListShowtimes", err)
		return []models.Showtime{}
	}
	return nonNil(showtimes)
}

// GetShowtime returns a single showtime.
func (c *Client) GetShowtime(ctx context.Context, id models.ID) (*models.Showtime, error) {
	var showtime models.Showtime
	if err := c.call(ctx, http.MethodGet, "/showtimes/"+escape(id), nil, &showtime); err != nil {
		return nil, err
	}
	return &showtime, nil
}

// ListTheatres returns all theatres. Failures are logged and yield an empty slice.
func (c *Client) ListTheatres(ctx context.Context) []models.Theatre {
	var theatres []models.Theatre
	if err := c.call(ctx, http.MethodGet, "/theatres", nil, &theatres); err != nil {
		c.fallback("ListTheatres", err)
		return []models.Theatre{}
	}
	return nonNil(theatres)
}

func escape(id models.ID) string {
	return url.PathEscape(id.String())
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
