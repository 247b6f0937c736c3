package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/urfave/cli/v3"
)

func requiredID(cmd *cli.Command, what string) (models.ID, error) {
	id := models.ID(strings.TrimSpace(cmd.StringArg("id")))
	if id == "" {
		return "", fmt.Errorf("%w: %s id", shared.ErrMissingArgument, what)
	}
	return id, nil
}

// applyMovieFlags copies every flag that was set onto movie.
func applyMovieFlags(cmd *cli.Command, movie *models.Movie) {
	if cmd.IsSet("title") {
		movie.Title = cmd.String("title")
	}
	if cmd.IsSet("description") {
		movie.Description = cmd.String("description")
	}
	if cmd.IsSet("genre") {
		movie.Genre = cmd.String("genre")
	}
	if cmd.IsSet("duration") {
		movie.Duration = int(cmd.Int("duration"))
	}
	if cmd.IsSet("rating") {
		movie.Rating = cmd.String("rating")
	}
	if cmd.IsSet("poster") {
		movie.PosterURL = cmd.String("poster")
	}
	if cmd.IsSet("release-date") {
		movie.ReleaseDate = cmd.String("release-date")
	}
	if cmd.IsSet("cast") {
		movie.Cast = cmd.StringSlice("cast")
	}
}

// applyShowtimeFlags copies every flag that was set onto showtime.
func applyShowtimeFlags(cmd *cli.Command, showtime *models.Showtime) error {
	if cmd.IsSet("movie") {
		showtime.MovieID = models.ID(cmd.String("movie"))
	}
	if cmd.IsSet("theatre") {
		showtime.TheatreID = models.ID(cmd.String("theatre"))
	}
	if cmd.IsSet("start") {
		start, err := time.Parse(time.RFC3339, cmd.String("start"))
		if err != nil {
			return fmt.Errorf("%w: --start must be RFC 3339: %v", shared.ErrInvalidFlag, err)
		}
		showtime.StartTime = start
	}
	if cmd.IsSet("price") {
		price := cmd.Float("price")
		if price < 0 {
			return fmt.Errorf("%w: --price must not be negative", shared.ErrInvalidFlag)
		}
		showtime.Price = price
	}
	if cmd.IsSet("seats") {
		showtime.AvailableSeats = int(cmd.Int("seats"))
	}
	return nil
}

// AdminMoviesList prints every movie, including unlisted ones.
func (r *Runner) AdminMoviesList(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.api.AdminMovies(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(movies, true)
	}
	return r.writeBytes(formatter.MoviesToText(movies))
}

// AdminGenresList prints the genres.
func (r *Runner) AdminGenresList(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.api.AdminGenres(ctx)
	if err != nil {
		return err
	}
	for _, g := range genres {
		r.writePlain("%-6s %s\n", g.ID, g.Name)
	}
	return nil
}

// AdminMoviesCreate adds a movie.
func (r *Runner) AdminMoviesCreate(ctx context.Context, cmd *cli.Command) error {
	var movie models.Movie
	applyMovieFlags(cmd, &movie)
	if strings.TrimSpace(movie.Title) == "" {
		return fmt.Errorf("%w: --title", shared.ErrMissingArgument)
	}

	created, err := r.api.AdminCreateMovie(ctx, movie)
	if err != nil {
		return err
	}
	r.logger.Info("movie created", "id", created.ID, "title", created.Title)
	return r.writePlain("✓ Created movie %s (%s)\n", created.ID, formatter.Clean(created.Title))
}

// AdminMoviesUpdate edits a movie. Unset flags keep their current values.
func (r *Runner) AdminMoviesUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd, "movie")
	if err != nil {
		return err
	}

	movie, err := r.api.GetMovie(ctx, id)
	if err != nil {
		return err
	}
	applyMovieFlags(cmd, movie)

	updated, err := r.api.AdminUpdateMovie(ctx, id, *movie)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Updated movie %s (%s)\n", id, formatter.Clean(updated.Title))
}

// AdminMoviesDelete removes a movie.
func (r *Runner) AdminMoviesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd, "movie")
	if err != nil {
		return err
	}
	if err := r.api.AdminDeleteMovie(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted movie %s\n", id)
}

// AdminShowtimesList prints every showtime, past ones included.
func (r *Runner) AdminShowtimesList(ctx context.Context, cmd *cli.Command) error {
	showtimes, err := r.api.AdminShowtimes(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(showtimes, true)
	}
	return r.writeBytes(formatter.ShowtimesToText(showtimes))
}

// AdminShowtimesCreate schedules a showtime.
func (r *Runner) AdminShowtimesCreate(ctx context.Context, cmd *cli.Command) error {
	var showtime models.Showtime
	if err := applyShowtimeFlags(cmd, &showtime); err != nil {
		return err
	}
	if showtime.MovieID == "" {
		return fmt.Errorf("%w: --movie", shared.ErrMissingArgument)
	}

	created, err := r.api.AdminCreateShowtime(ctx, showtime)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Scheduled showtime %s at %s\n", created.ID, formatter.FormatTime(created.StartTime))
}

// AdminShowtimesUpdate edits a showtime. Unset flags keep their current values.
func (r *Runner) AdminShowtimesUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd, "showtime")
	if err != nil {
		return err
	}

	showtime, err := r.api.GetShowtime(ctx, id)
	if err != nil {
		return err
	}
	if err := applyShowtimeFlags(cmd, showtime); err != nil {
		return err
	}
	showtime.Movie, showtime.Theatre = nil, nil

	if _, err := r.api.AdminUpdateShowtime(ctx, id, *showtime); err != nil {
		return err
	}
	return r.writePlain("✓ Updated showtime %s\n", id)
}

// AdminShowtimesDelete removes a showtime.
func (r *Runner) AdminShowtimesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd, "showtime")
	if err != nil {
		return err
	}
	if err := r.api.AdminDeleteShowtime(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted showtime %s\n", id)
}

// AdminAccountsList prints every account.
func (r *Runner) AdminAccountsList(ctx context.Context, cmd *cli.Command) error {
	accounts, err := r.api.AdminAccounts(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(accounts, true)
	}

	tw := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tBALANCE\tADMIN")
	for _, a := range accounts {
		name := strings.TrimSpace(a.FirstName + " " + a.LastName)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", a.ID, a.Email, formatter.Clean(name), models.FormatMoney(a.Balance), a.IsAdmin)
	}
	return tw.Flush()
}

// AdminAccountsUpdate edits another account, including its admin flag.
func (r *Runner) AdminAccountsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd, "account")
	if err != nil {
		return err
	}
	update := accountUpdate(cmd, true)
	if update.Empty() {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	profile, err := r.api.AdminUpdateAccount(ctx, id, update)
	if err != nil {
		return err
	}
	if current := r.store.Current(); current != nil && current.ID == id {
		if _, err := r.auth.ApplyProfile(ctx, profile); err != nil {
			r.logger.Warn("failed to cache updated profile", "error", err)
		}
	}
	return r.writePlain("✓ Updated account %s\n", id)
}

// AdminAccountsDelete removes an account.
func (r *Runner) AdminAccountsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd, "account")
	if err != nil {
		return err
	}
	if err := r.api.AdminDeleteAccount(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted account %s\n", id)
}
