// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/router"
	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true}
}

func idArg(name string) []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: name}}
}

// movieFlags are shared by admin movie create and update.
func movieFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Movie title", Required: required},
		&cli.StringFlag{Name: "description", Usage: "Synopsis"},
		&cli.StringFlag{Name: "genre", Usage: "Genre name"},
		&cli.IntFlag{Name: "duration", Usage: "Running time in minutes"},
		&cli.StringFlag{Name: "rating", Usage: "Age rating, e.g. PG-13"},
		&cli.StringFlag{Name: "poster", Usage: "Poster URL"},
		&cli.StringFlag{Name: "release-date", Usage: "Release date (YYYY-MM-DD)"},
		&cli.StringSliceFlag{Name: "cast", Usage: "Cast member (repeatable)"},
	}
}

// showtimeFlags are shared by admin showtime create and update.
func showtimeFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "movie", Usage: "Movie ID", Required: required},
		&cli.StringFlag{Name: "theatre", Usage: "Theatre ID"},
		&cli.StringFlag{Name: "start", Usage: "Start time (RFC 3339)", Required: required},
		&cli.FloatFlag{Name: "price", Usage: "Ticket price"},
		&cli.IntFlag{Name: "seats", Usage: "Available seats"},
	}
}

// accountUpdateFlags are shared by account update and admin accounts update.
func accountUpdateFlags(admin bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "email", Usage: "New email address"},
		&cli.StringFlag{Name: "first-name", Usage: "New first name"},
		&cli.StringFlag{Name: "last-name", Usage: "New last name"},
		&cli.StringFlag{Name: "password", Usage: "New password", Sources: cli.EnvVars("BOXOFFICE_NEW_PASSWORD")},
	}
	if admin {
		flags = append(flags, &cli.BoolFlag{Name: "admin", Usage: "Grant or revoke admin rights"})
	}
	return flags
}

// setupCommand handles local initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and local storage",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the latest database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles sign-in and session inspection
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in, sign out and inspect the session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Sources: cli.EnvVars("BOXOFFICE_EMAIL")},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("BOXOFFICE_PASSWORD")},
				},
				Before: r.requireRoute(router.LoginPath),
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("BOXOFFICE_PASSWORD"), Required: true},
					&cli.StringFlag{Name: "first-name", Usage: "First name"},
					&cli.StringFlag{Name: "last-name", Usage: "Last name"},
				},
				Before: r.requireRoute(router.RegisterPath),
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "google",
				Usage:  "Sign in with Google in the browser",
				Before: r.requireRoute(router.LoginPath),
				Action: r.AuthGoogle,
			},
			{
				Name:      "callback",
				Usage:     "Complete a sign-in from a callback URL (?token= or ?error=)",
				Arguments: idArg("url"),
				Before:    r.requireRoute(router.OAuthCallbackPath),
				Action:    r.AuthCallback,
			},
			{
				Name:  "status",
				Usage: "Show the signed-in identity",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "refresh", Usage: "Fetch the profile from the backend first"},
					jsonFlag(),
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles the public catalogue
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "movies",
		Usage:  "Browse movies",
		Before: r.requireRoute(router.MoviesPath),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List movies now showing",
				Flags: []cli.Flag{
					jsonFlag(),
					&cli.BoolFlag{Name: "csv", Usage: "Output CSV"},
				},
				Action: r.MoviesList,
			},
			{
				Name:      "show",
				Usage:     "Show a movie and its showtimes",
				Arguments: idArg("id"),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "tmdb", Usage: "Include TMDB metadata", Value: true},
					jsonFlag(),
				},
				Action: r.MoviesShow,
			},
			{
				Name:      "tmdb",
				Usage:     "Look up a title on TMDB",
				Arguments: idArg("title"),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.MoviesTMDB,
			},
			{
				Name:   "create",
				Usage:  "Submit a movie through the public endpoint",
				Flags:  movieFlags(true),
				Action: r.MoviesCreate,
			},
		},
	}
}

// showtimesCommand lists scheduled screenings
func showtimesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "showtimes",
		Usage: "Browse showtimes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List showtimes, optionally for one movie",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "movie", Aliases: []string{"m"}, Usage: "Movie ID"},
					jsonFlag(),
				},
				Before: r.requireRoute(router.MoviesPath),
				Action: r.ShowtimesList,
			},
		},
	}
}

// theatresCommand lists screening rooms
func theatresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "theatres",
		Usage: "Browse theatres",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List theatres",
				Flags:  []cli.Flag{jsonFlag()},
				Before: r.requireRoute(router.MoviesPath),
				Action: r.TheatresList,
			},
		},
	}
}

// bookingsCommand handles the signed-in user's bookings
func bookingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bookings",
		Usage: "Book seats and manage bookings",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your bookings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: txt, json, csv, markdown", Value: formatter.FormatText},
				},
				Before: r.requireRoute(router.BookingsPath),
				Action: r.BookingsList,
			},
			{
				Name:  "create",
				Usage: "Book seats for a showtime",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "showtime", Aliases: []string{"s"}, Usage: "Showtime ID", Required: true},
					&cli.IntFlag{Name: "seats", Aliases: []string{"n"}, Usage: "Number of seats", Value: 1},
					&cli.StringSliceFlag{Name: "seat", Usage: "Seat label (repeatable, must match --seats)"},
					jsonFlag(),
				},
				Before: r.requireRoute(router.BookingPath),
				Action: r.BookingsCreate,
			},
			{
				Name:      "cancel",
				Usage:     "Cancel a booking",
				Arguments: idArg("id"),
				Before:    r.requireRoute(router.BookingsPath),
				Action:    r.BookingsCancel,
			},
			{
				Name:  "export",
				Usage: "Export your bookings to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: json, csv, markdown, txt", Value: formatter.FormatJSON},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory (default: bookings_export_{epoch})"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent lookups", Value: 5},
					&cli.FloatFlag{Name: "rate", Usage: "Lookups per second", Value: 5},
				},
				Before: r.requireRoute(router.BookingsPath),
				Action: r.BookingsExport,
			},
		},
	}
}

// accountCommand handles the signed-in user's profile and wallet
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "account",
		Usage:  "Profile and wallet",
		Before: r.requireRoute(router.AccountPath),
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show your profile and balance",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AccountShow,
			},
			{
				Name:   "update",
				Usage:  "Update your profile",
				Flags:  accountUpdateFlags(false),
				Action: r.AccountUpdate,
			},
			{
				Name:      "add-balance",
				Usage:     "Top up your wallet",
				Arguments: idArg("amount"),
				Action:    r.AccountAddBalance,
			},
		},
	}
}

// notificationsCommand handles account notifications
func notificationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "notifications",
		Usage:  "Read notifications",
		Before: r.requireRoute(router.NotificationsPath),
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List notifications, unread marked with *",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.NotificationsList,
			},
			{
				Name:      "read",
				Usage:     "Mark a notification as read",
				Arguments: idArg("id"),
				Action:    r.NotificationsRead,
			},
		},
	}
}

// adminCommand handles the back-office
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Back-office operations (admin accounts only)",
		Commands: []*cli.Command{
			{
				Name:   "movies",
				Usage:  "Manage the catalogue",
				Before: r.requireRoute(router.AdminMoviesPath),
				Commands: []*cli.Command{
					{Name: "list", Usage: "List all movies", Flags: []cli.Flag{jsonFlag()}, Action: r.AdminMoviesList},
					{Name: "genres", Usage: "List genres", Action: r.AdminGenresList},
					{Name: "create", Usage: "Add a movie", Flags: movieFlags(true), Action: r.AdminMoviesCreate},
					{Name: "update", Usage: "Edit a movie", Arguments: idArg("id"), Flags: movieFlags(false), Action: r.AdminMoviesUpdate},
					{Name: "delete", Usage: "Remove a movie", Arguments: idArg("id"), Action: r.AdminMoviesDelete},
				},
			},
			{
				Name:   "showtimes",
				Usage:  "Manage the schedule",
				Before: r.requireRoute(router.AdminShowtimesPath),
				Commands: []*cli.Command{
					{Name: "list", Usage: "List all showtimes", Flags: []cli.Flag{jsonFlag()}, Action: r.AdminShowtimesList},
					{Name: "create", Usage: "Schedule a showtime", Flags: showtimeFlags(true), Action: r.AdminShowtimesCreate},
					{Name: "update", Usage: "Edit a showtime", Arguments: idArg("id"), Flags: showtimeFlags(false), Action: r.AdminShowtimesUpdate},
					{Name: "delete", Usage: "Remove a showtime", Arguments: idArg("id"), Action: r.AdminShowtimesDelete},
				},
			},
			{
				Name:   "accounts",
				Usage:  "Manage accounts",
				Before: r.requireRoute(router.AdminAccountsPath),
				Commands: []*cli.Command{
					{Name: "list", Usage: "List accounts", Flags: []cli.Flag{jsonFlag()}, Action: r.AdminAccountsList},
					{Name: "update", Usage: "Edit an account", Arguments: idArg("id"), Flags: accountUpdateFlags(true), Action: r.AdminAccountsUpdate},
					{Name: "delete", Usage: "Remove an account", Arguments: idArg("id"), Action: r.AdminAccountsDelete},
				},
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the booking backend",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Direct GET, prints the response body",
				Arguments: idArg("path"),
				Flags:     []cli.Flag{prettyFlag()},
				Action:    r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "Direct POST with JSON body",
				Arguments: idArg("path"),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
					prettyFlag(),
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand launches the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
