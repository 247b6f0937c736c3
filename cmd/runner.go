package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/auth"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/repositories"
	"github.com/desertthunder/boxoffice/internal/router"
	"github.com/desertthunder/boxoffice/internal/services"
	"github.com/desertthunder/boxoffice/internal/session"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/desertthunder/boxoffice/internal/tasks"
	"github.com/urfave/cli/v3"
)

const tmdbCacheTTL = 24 * time.Hour

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	store      session.View
	api        *services.Client
	tmdb       *services.TMDBClient
	auth       *auth.Controller
	guard      *router.Guard
	engine     *tasks.BookingEngine
	browser    shared.BrowserOpener
	opts       RunnerOpts
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB           // optional; backs session storage and the TMDB cache
	Storage    session.Storage   // overrides the storage derived from Config and DB
	Transport  http.RoundTripper // base transport for backend and TMDB requests
	Browser    shared.BrowserOpener
}

// NewRunner wires the session store, API client, auth controller, route guard and booking engine.
//
// The persisted session is loaded once here. A corrupted session is cleared and logged, not returned.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}

	if opts.Storage == nil {
		if opts.DB != nil && opts.Config.Session.Storage != shared.StorageMemory {
			opts.Storage = repositories.NewLocalStorageRepository(opts.DB)
		} else {
			opts.Storage = session.NewMemoryStorage(nil)
		}
	}

	store := session.NewStore(opts.Storage, opts.Logger)
	if err := store.Load(); err != nil {
		opts.Logger.Warn("stored session could not be restored", "error", err)
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL:           opts.Config.API.BaseURL,
		Timeout:           opts.Config.API.Timeout(),
		RequestsPerSecond: opts.Config.API.RequestsPerSecond,
		Burst:             opts.Config.API.Burst,
		Credentials:       store,
		Transport:         opts.Transport,
		Logger:            opts.Logger,
	})

	var cache services.TMDBCache
	if opts.DB != nil {
		cache = repositories.NewTMDBCacheRepository(opts.DB, tmdbCacheTTL)
	}
	tmdb := services.NewTMDBClient(
		opts.Config.TMDB.APIKey,
		opts.Config.TMDB.BaseURL,
		&http.Client{Timeout: opts.Config.API.Timeout(), Transport: opts.Transport},
		cache,
		opts.Logger,
	)

	handshake, err := auth.NewHandshake(opts.Config.OAuth, client.GoogleRedirectURL, opts.Browser, opts.Logger)
	if err != nil {
		opts.Logger.Warn("third-party sign-in disabled", "error", err)
	}
	controller := auth.NewController(client, store, handshake, opts.Logger)

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		db:         opts.DB,
		store:      store,
		api:        client,
		tmdb:       tmdb,
		auth:       controller,
		guard:      router.NewGuard(router.DefaultTable(), store, opts.Logger),
		engine:     tasks.NewBookingEngine(client, controller, store, opts.Logger),
		browser:    opts.Browser,
		opts:       opts,
	}
}

// SetLogger rebuilds the runner around l, e.g. while the TUI owns the terminal. Every component holds its own
// child logger, so they are recreated on the same storage.
func (r *Runner) SetLogger(l *log.Logger) {
	opts := r.opts
	opts.Logger = l
	*r = *NewRunner(opts)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, showtimesCommand, theatresCommand, bookingsCommand,
		accountCommand, notificationsCommand, adminCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireRoute evaluates path with the route guard before a command runs.
func (r *Runner) requireRoute(path string) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		return ctx, r.checkRoute(path)
	}
}

func (r *Runner) checkRoute(path string) error {
	d := r.guard.Navigate(path)
	if d.Allowed {
		return nil
	}
	if d.Redirect == router.LoginPath {
		return fmt.Errorf("%w: run `boxoffice auth login`", shared.ErrLoginRequired)
	}
	if d.Notice != "" {
		r.logger.Warn(d.Notice, "route", path)
	}
	return fmt.Errorf("%w: %s", shared.ErrAccessDenied, path)
}

// userID returns the signed-in user's id, fetching the profile when only a credential is cached.
func (r *Runner) userID(ctx context.Context) (models.ID, error) {
	if identity := r.store.Current(); identity != nil && identity.ID != "" {
		return identity.ID, nil
	}
	identity, err := r.auth.RefreshIdentity(ctx)
	if err != nil {
		return "", err
	}
	if identity == nil || identity.ID == "" {
		return "", fmt.Errorf("%w: profile has no id", shared.ErrInvalidSession)
	}
	return identity.ID, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// printProgress prints updates until the returned stop function is called, then waits for the printer
// goroutine to drain.
func (r *Runner) printProgress(prefix map[tasks.Phase]string) (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			icon, ok := prefix[update.Phase]
			if !ok {
				icon = "•"
			}
			r.writePlain("%s %s\n", icon, update.Message)
		}
	}()
	return progress, func() {
		close(progress)
		<-done
	}
}

// isNotFound reports whether err is a 404 from the backend.
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
