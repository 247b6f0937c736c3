package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/urfave/cli/v3"
)

// MoviesList prints the catalogue. An unreachable backend yields an empty list.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	movies := r.api.ListMovies(ctx)
	r.logger.Debug("fetched movies", "count", len(movies))

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(movies, true)
	case cmd.Bool("csv"):
		data, err := formatter.MoviesToCSV(movies)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	if len(movies) == 0 {
		return r.writePlain("No movies available\n")
	}
	r.writePlainHeader(fmt.Sprintf("Now showing (%d)", len(movies)))
	return r.writeBytes(formatter.MoviesToText(movies))
}

type movieDetail struct {
	Movie     *models.Movie     `json:"movie"`
	Showtimes []models.Showtime `json:"showtimes"`
	TMDB      *models.TMDBMovie `json:"tmdb,omitempty"`
}

// MoviesShow prints a movie with its showtimes and, when configured, TMDB metadata.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id := models.ID(strings.TrimSpace(cmd.StringArg("id")))
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	movie, err := r.api.GetMovie(ctx, id)
	if isNotFound(err) {
		return fmt.Errorf("%w: no movie with id %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	detail := movieDetail{Movie: movie, Showtimes: r.api.ListShowtimes(ctx, id)}
	if cmd.Bool("tmdb") {
		detail.TMDB = r.tmdb.SearchMovie(ctx, movie.Title)
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, true)
	}

	r.writeBytes(formatter.MovieToText(movie, detail.TMDB))
	r.writePlainln("Showtimes")
	if len(detail.Showtimes) == 0 {
		return r.writePlain("No upcoming showtimes\n")
	}
	r.writeBytes(formatter.ShowtimesToText(detail.Showtimes))
	return r.writePlain("\nBook with: boxoffice bookings create --showtime <id> --seats <n>\n")
}

// MoviesTMDB looks up a title on TMDB.
func (r *Runner) MoviesTMDB(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}
	if r.config.TMDB.APIKey == "" {
		return fmt.Errorf("%w: set tmdb.api_key to enable lookups", shared.ErrMissingConfig)
	}

	result := r.tmdb.SearchMovie(ctx, title)
	if result == nil {
		return fmt.Errorf("%w: no TMDB match for %q", shared.ErrNotFound, title)
	}
	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	return r.writeBytes(formatter.MovieToText(&models.Movie{Title: result.Title, ReleaseDate: result.ReleaseDate}, result))
}

// MoviesCreate submits a movie through POST /movies.
func (r *Runner) MoviesCreate(ctx context.Context, cmd *cli.Command) error {
	var movie models.Movie
	applyMovieFlags(cmd, &movie)
	if strings.TrimSpace(movie.Title) == "" {
		return fmt.Errorf("%w: --title", shared.ErrMissingArgument)
	}

	created, err := r.api.CreateMovie(ctx, movie)
	if err != nil {
		return err
	}
	r.logger.Info("movie submitted", "id", created.ID, "title", created.Title)
	return r.writePlain("✓ Created movie %s (%s)\n", created.ID, formatter.Clean(created.Title))
}

// ShowtimesList prints showtimes, optionally filtered to one movie.
func (r *Runner) ShowtimesList(ctx context.Context, cmd *cli.Command) error {
	showtimes := r.api.ListShowtimes(ctx, models.ID(cmd.String("movie")))
	if cmd.Bool("json") {
		return r.writeJSON(showtimes, true)
	}
	if len(showtimes) == 0 {
		return r.writePlain("No showtimes scheduled\n")
	}
	return r.writeBytes(formatter.ShowtimesToText(showtimes))
}

// TheatresList prints the theatres.
func (r *Runner) TheatresList(ctx context.Context, cmd *cli.Command) error {
	theatres := r.api.ListTheatres(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(theatres, true)
	}
	if len(theatres) == 0 {
		return r.writePlain("No theatres found\n")
	}
	return r.writeBytes(formatter.TheatresToText(theatres))
}
