package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/boxoffice/internal/models"
)

// AdminMovies lists movies through the back-office endpoint.
func (c *Client) AdminMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if err := c.call(ctx, http.MethodGet, "/admin/movies", nil, &movies); err != nil {
		return nil, err
	}
	return nonNil(movies), nil
}

// AdminGenres lists the genres a movie can be filed under.
func (c *Client) AdminGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := c.call(ctx, http.MethodGet, "/admin/movies/genres", nil, &genres); err != nil {
		return nil, err
	}
	return nonNil(genres), nil
}

func (c *Client) AdminCreateMovie(ctx context.Context, movie models.Movie) (*models.Movie, error) {
	var created models.Movie
	if err := c.call(ctx, http.MethodPost, "/admin/movies", movie, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) AdminUpdateMovie(ctx context.Context, id models.ID, movie models.Movie) (*models.Movie, error) {
	var updated models.Movie
	if err := c.call(ctx, http.MethodPut, "/admin/movies/"+escape(id), movie, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) AdminDeleteMovie(ctx context.Context, id models.ID) error {
	return c.call(ctx, http.MethodDelete, "/admin/movies/"+escape(id), nil, nil)
}

// AdminShowtimes lists every showtime, past ones included.
func (c *Client) AdminShowtimes(ctx context.Context) ([]models.Showtime, error) {
	var showtimes []models.Showtime
	if err := c.call(ctx, http.MethodGet, "/admin/showtimes", nil, &showtimes); err != nil {
		return nil, err
	}
	return nonNil(showtimes), nil
}

func (c *Client) AdminCreateShowtime(ctx context.Context, showtime models.Showtime) (*models.Showtime, error) {
	var created models.Showtime
	if err := c.call(ctx, http.MethodPost, "/admin/showtimes", showtime, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) AdminUpdateShowtime(ctx context.Context, id models.ID, showtime models.Showtime) (*models.Showtime, error) {
	var updated models.Showtime
	if err := c.call(ctx, http.MethodPut, "/admin/showtimes/"+escape(id), showtime, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) AdminDeleteShowtime(ctx context.Context, id models.ID) error {
	return c.call(ctx, http.MethodDelete, "/admin/showtimes/"+escape(id), nil, nil)
}

// AdminAccounts lists all accounts.
func (c *Client) AdminAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.call(ctx, http.MethodGet, "/admin/accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return nonNil(accounts), nil
}

func (c *Client) AdminUpdateAccount(ctx context.Context, id models.ID, update models.AccountUpdate) (*models.ProfileUpdate, error) {
	return c.writeAccount(ctx, http.MethodPut, "/admin/accounts/"+escape(id), update)
}

func (c *Client) AdminDeleteAccount(ctx context.Context, id models.ID) error {
	return c.call(ctx, http.MethodDelete, "/admin/accounts/"+escape(id), nil, nil)
}
