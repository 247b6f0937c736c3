package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/router"
	"github.com/desertthunder/boxoffice/internal/session"
	"github.com/desertthunder/boxoffice/internal/shared"
	tu "github.com/desertthunder/boxoffice/internal/testing"
	"github.com/urfave/cli/v3"
)

func signedInSeed(t *testing.T, admin bool) map[string]string {
	t.Helper()
	token := tu.SignedJWT(t, map[string]any{"sub": "7", "email": "ada@example.com"})
	identity := fmt.Sprintf(`{"id":"7","email":"ada@example.com","firstName":"Ada","lastName":"Lovelace","isAdmin":%t,"balance":50}`, admin)
	return map[string]string{session.CredentialKey: token, session.IdentityKey: identity}
}

func newTestRunner(t *testing.T, handler http.Handler, seed map[string]string) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.API.RequestsPerSecond = 0
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		config.API.BaseURL = srv.URL
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
		Storage: session.NewMemoryStorage(seed),
		Browser: func(string) error { return errors.New("no browser in tests") },
	})
	return runner, output
}

func runCLI(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:      "boxoffice",
		Commands:  r.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"boxoffice"}, args...))
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(io.Discard)
			output := &bytes.Buffer{}
			storage := session.NewMemoryStorage(nil)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				Storage:    storage,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.opts.Storage != storage {
				t.Error("expected storage to be used")
			}
			if runner.api.BaseURL() != config.API.BaseURL {
				t.Errorf("expected base url %s, got %s", config.API.BaseURL, runner.api.BaseURL())
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without database keeps session in memory", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})

			if _, ok := runner.opts.Storage.(*session.MemoryStorage); !ok {
				t.Errorf("expected memory storage, got %T", runner.opts.Storage)
			}
			if runner.store.IsAuthenticated() {
				t.Error("expected a fresh runner to be signed out")
			}
		})

		t.Run("with database persists session across runners", func(t *testing.T) {
			db, err := shared.NewDatabase(":memory:")
			if err != nil {
				t.Fatalf("failed to create database: %v", err)
			}
			defer db.Close()
			if err := shared.RunMigrations(db); err != nil {
				t.Fatalf("failed to run migrations: %v", err)
			}

			opts := RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}, DB: db}
			first := NewRunner(opts)
			identity := &models.Identity{ID: "7", Email: "ada@example.com", Balance: 12}
			if err := session.NewStore(first.opts.Storage, first.logger).SetSession("tok", identity); err != nil {
				t.Fatalf("failed to store session: %v", err)
			}

			second := NewRunner(opts)
			if !second.store.IsAuthenticated() {
				t.Fatal("expected the session to be restored from the database")
			}
			if got := second.store.Current(); got.Email != "ada@example.com" || got.Balance != 12 {
				t.Errorf("unexpected restored identity: %+v", got)
			}
		})

		t.Run("with corrupted session starts signed out", func(t *testing.T) {
			runner, _ := newTestRunner(t, nil, map[string]string{
				session.CredentialKey: "tok",
				session.IdentityKey:   "{not json",
			})

			if runner.store.IsAuthenticated() {
				t.Error("expected corrupted session to be discarded")
			}
		})
	})

	t.Run("SetLogger keeps the session", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil, signedInSeed(t, false))
		replacement := shared.NewLogger(io.Discard)

		runner.SetLogger(replacement)

		if runner.logger != replacement {
			t.Error("expected logger to be replaced")
		}
		if !runner.store.IsAuthenticated() {
			t.Error("expected session to survive the rebuild")
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			runner, output := newTestRunner(t, nil, nil)

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			runner, output := newTestRunner(t, nil, nil)

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner, _ := newTestRunner(t, nil, nil)

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			runner, output := newTestRunner(t, nil, nil)

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil, nil)
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{
			"setup", "auth", "movies", "showtimes", "theatres", "bookings",
			"account", "notifications", "admin", "api", "tui",
		} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestCheckRoute(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(t *testing.T) map[string]string
		path    string
		wantErr error
	}{
		{"public route while signed out", func(*testing.T) map[string]string { return nil }, router.MoviesPath, nil},
		{"movie detail while signed out", func(*testing.T) map[string]string { return nil }, router.MoviePath, nil},
		{"bookings while signed out", func(*testing.T) map[string]string { return nil }, router.BookingsPath, shared.ErrLoginRequired},
		{"booking while signed out", func(*testing.T) map[string]string { return nil }, router.BookingPath, shared.ErrLoginRequired},
		{"bookings while signed in", func(t *testing.T) map[string]string { return signedInSeed(t, false) }, router.BookingsPath, nil},
		{"admin while signed out", func(*testing.T) map[string]string { return nil }, router.AdminMoviesPath, shared.ErrLoginRequired},
		{"admin without rights", func(t *testing.T) map[string]string { return signedInSeed(t, false) }, router.AdminAccountsPath, shared.ErrAccessDenied},
		{"admin with rights", func(t *testing.T) map[string]string { return signedInSeed(t, true) }, router.AdminShowtimesPath, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := newTestRunner(t, nil, tt.seed(t))

			err := runner.checkRoute(tt.path)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected access, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	t.Run("movies list prints the catalogue", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/movies" {
				writeBody(w, http.StatusNotFound, `{"error":"not found"}`)
				return
			}
			writeBody(w, http.StatusOK, `[{"id":1,"title":"Dune: Part Two","genre":"Sci-Fi","duration":166}]`)
		})
		runner, output := newTestRunner(t, handler, nil)

		if err := runCLI(runner, "movies", "list"); err != nil {
			t.Fatalf("movies list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Dune: Part Two") {
			t.Errorf("expected movie title in output, got %q", output.String())
		}
		if !strings.Contains(output.String(), "2h46m") {
			t.Errorf("expected formatted duration in output, got %q", output.String())
		}
	})

	t.Run("movies list tolerates an unreachable backend", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			writeBody(w, http.StatusInternalServerError, `{"error":"boom"}`)
		})
		runner, output := newTestRunner(t, handler, nil)

		if err := runCLI(runner, "movies", "list"); err != nil {
			t.Fatalf("expected empty listing, got %v", err)
		}
		if !strings.Contains(output.String(), "No movies available") {
			t.Errorf("expected empty message, got %q", output.String())
		}
	})

	t.Run("movies show reports a missing movie", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			writeBody(w, http.StatusNotFound, `{"error":"no such movie"}`)
		})
		runner, _ := newTestRunner(t, handler, nil)

		err := runCLI(runner, "movies", "show", "42")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("movies create posts to the public endpoint", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodPost || req.URL.Path != "/movies" {
				writeBody(w, http.StatusNotFound, `{}`)
				return
			}
			body, _ := io.ReadAll(req.Body)
			if !strings.Contains(string(body), `"title":"Heat"`) {
				writeBody(w, http.StatusBadRequest, `{"error":"title required"}`)
				return
			}
			writeBody(w, http.StatusCreated, `{"id":12,"title":"Heat"}`)
		})
		runner, output := newTestRunner(t, handler, nil)

		if err := runCLI(runner, "movies", "create", "--title", "Heat", "--duration", "170"); err != nil {
			t.Fatalf("movies create failed: %v", err)
		}
		if !strings.Contains(output.String(), "Created movie 12 (Heat)") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("bookings list requires a session and sends no request", func(t *testing.T) {
		var hits atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hits.Add(1)
			writeBody(w, http.StatusOK, `[]`)
		})
		runner, _ := newTestRunner(t, handler, nil)

		err := runCLI(runner, "bookings", "list")
		if !errors.Is(err, shared.ErrLoginRequired) {
			t.Fatalf("expected ErrLoginRequired, got %v", err)
		}
		if hits.Load() != 0 {
			t.Errorf("expected no backend requests, got %d", hits.Load())
		}
	})

	t.Run("bookings create books seats and refreshes the balance", func(t *testing.T) {
		seed := signedInSeed(t, false)
		var created atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if got := req.Header.Get("Authorization"); got != "Bearer "+seed[session.CredentialKey] {
				writeBody(w, http.StatusUnauthorized, `{"error":"missing token"}`)
				return
			}
			switch {
			case req.Method == http.MethodGet && req.URL.Path == "/showtimes/3":
				writeBody(w, http.StatusOK, `{"id":3,"movieId":1,"startTime":"2026-03-14T19:30:00Z","price":12.5,"availableSeats":40,"movie":{"id":1,"title":"Dune"}}`)
			case req.Method == http.MethodPost && req.URL.Path == "/bookings/create":
				created.Add(1)
				writeBody(w, http.StatusCreated, `{"id":99,"userId":7,"showtimeId":3,"seats":2,"totalPrice":25,"status":"confirmed"}`)
			case req.Method == http.MethodGet && req.URL.Path == "/accounts/me":
				writeBody(w, http.StatusOK, `{"id":7,"email":"ada@example.com","balance":25}`)
			default:
				writeBody(w, http.StatusNotFound, `{"error":"not found"}`)
			}
		})
		runner, output := newTestRunner(t, handler, seed)

		if err := runCLI(runner, "bookings", "create", "--showtime", "3", "--seats", "2"); err != nil {
			t.Fatalf("bookings create failed: %v", err)
		}
		if created.Load() != 1 {
			t.Fatalf("expected one booking request, got %d", created.Load())
		}

		out := output.String()
		for _, want := range []string{"Booking confirmed", "Charged:  $25.00", "Balance:  $25.00"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %q", want, out)
			}
		}
		if got := runner.store.Current().Balance; got != 25 {
			t.Errorf("expected cached balance 25, got %v", got)
		}
	})

	t.Run("bookings create stops on insufficient balance", func(t *testing.T) {
		var created atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			switch req.URL.Path {
			case "/showtimes/3":
				writeBody(w, http.StatusOK, `{"id":3,"movieId":1,"startTime":"2026-03-14T19:30:00Z","price":30,"availableSeats":40}`)
			case "/bookings/create":
				created.Add(1)
				writeBody(w, http.StatusCreated, `{}`)
			default:
				writeBody(w, http.StatusNotFound, `{}`)
			}
		})
		runner, _ := newTestRunner(t, handler, signedInSeed(t, false))

		err := runCLI(runner, "bookings", "create", "--showtime", "3", "--seats", "2")
		if !errors.Is(err, shared.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
		if created.Load() != 0 {
			t.Error("expected no booking request")
		}
	})

	t.Run("bookings list renders csv", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/bookings" || req.URL.Query().Get("userId") != "7" {
				writeBody(w, http.StatusNotFound, `{}`)
				return
			}
			writeBody(w, http.StatusOK, `[{"id":5,"userId":7,"showtimeId":3,"seats":2,"totalPrice":25,"status":"confirmed"}]`)
		})
		runner, output := newTestRunner(t, handler, signedInSeed(t, false))

		if err := runCLI(runner, "bookings", "list", "--format", "csv"); err != nil {
			t.Fatalf("bookings list failed: %v", err)
		}
		if !strings.HasPrefix(output.String(), "ID,Showtime ID,Movie,Starts,Seats,Total,Status") {
			t.Errorf("expected csv header, got %q", output.String())
		}
		if !strings.Contains(output.String(), "25.00") {
			t.Errorf("expected total in output, got %q", output.String())
		}
	})

	t.Run("account add-balance updates the cached identity", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodPut || req.URL.Path != "/accounts/7/add-balance" {
				writeBody(w, http.StatusNotFound, `{}`)
				return
			}
			body, _ := io.ReadAll(req.Body)
			if !strings.Contains(string(body), `"amount":20`) {
				writeBody(w, http.StatusBadRequest, `{"error":"bad amount"}`)
				return
			}
			writeBody(w, http.StatusOK, `{"id":7,"email":"ada@example.com","balance":70}`)
		})
		runner, output := newTestRunner(t, handler, signedInSeed(t, false))

		if err := runCLI(runner, "account", "add-balance", "20"); err != nil {
			t.Fatalf("add-balance failed: %v", err)
		}
		if !strings.Contains(output.String(), "balance is now $70.00") {
			t.Errorf("unexpected output %q", output.String())
		}
		if got := runner.store.Current().Balance; got != 70 {
			t.Errorf("expected cached balance 70, got %v", got)
		}
	})

	t.Run("account add-balance refetches the profile after an empty response", func(t *testing.T) {
		var profileFetches atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			switch req.URL.Path {
			case "/accounts/7/add-balance":
				w.WriteHeader(http.StatusNoContent)
			case "/accounts/me":
				profileFetches.Add(1)
				writeBody(w, http.StatusOK, `{"id":7,"email":"ada@example.com","balance":70}`)
			default:
				writeBody(w, http.StatusNotFound, `{}`)
			}
		})
		runner, output := newTestRunner(t, handler, signedInSeed(t, false))

		if err := runCLI(runner, "account", "add-balance", "20"); err != nil {
			t.Fatalf("add-balance failed: %v", err)
		}
		if profileFetches.Load() != 1 {
			t.Errorf("expected one profile fetch, got %d", profileFetches.Load())
		}
		if !strings.Contains(output.String(), "balance is now $70.00") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("account add-balance keeps admin rights on a partial response", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			switch req.URL.Path {
			case "/accounts/7/add-balance":
				writeBody(w, http.StatusOK, `{"id":7,"balance":70}`)
			case "/admin/movies":
				writeBody(w, http.StatusOK, `[]`)
			default:
				writeBody(w, http.StatusNotFound, `{}`)
			}
		})
		runner, _ := newTestRunner(t, handler, signedInSeed(t, true))

		if err := runCLI(runner, "account", "add-balance", "20"); err != nil {
			t.Fatalf("add-balance failed: %v", err)
		}
		current := runner.store.Current()
		if !current.IsAdmin || current.Balance != 70 || current.FirstName != "Ada" {
			t.Errorf("expected partial merge, got %+v", current)
		}
		if err := runCLI(runner, "admin", "movies", "list"); err != nil {
			t.Errorf("expected admin access after top-up, got %v", err)
		}
	})

	t.Run("account update tolerates an empty response", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			switch req.URL.Path {
			case "/accounts/7":
				w.WriteHeader(http.StatusNoContent)
			case "/accounts/me":
				writeBody(w, http.StatusOK, `{"id":7,"email":"ada@example.com","firstName":"Augusta","balance":50}`)
			default:
				writeBody(w, http.StatusNotFound, `{}`)
			}
		})
		runner, output := newTestRunner(t, handler, signedInSeed(t, false))

		if err := runCLI(runner, "account", "update", "--first-name", "Augusta"); err != nil {
			t.Fatalf("account update failed: %v", err)
		}
		if got := runner.store.Current().FirstName; got != "Augusta" {
			t.Errorf("expected refreshed name, got %q", got)
		}
		if !strings.Contains(output.String(), "Profile updated") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("admin accounts update of self tolerates an empty response", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			switch req.URL.Path {
			case "/admin/accounts/7":
				w.WriteHeader(http.StatusNoContent)
			case "/accounts/me":
				writeBody(w, http.StatusOK, `{"id":7,"email":"ada@example.com","isAdmin":true,"balance":50}`)
			default:
				writeBody(w, http.StatusNotFound, `{}`)
			}
		})
		runner, output := newTestRunner(t, handler, signedInSeed(t, true))

		if err := runCLI(runner, "admin", "accounts", "update", "--last-name", "King", "7"); err != nil {
			t.Fatalf("admin accounts update failed: %v", err)
		}
		if !strings.Contains(output.String(), "Updated account 7") {
			t.Errorf("unexpected output %q", output.String())
		}
		if !runner.store.Current().IsAdmin {
			t.Error("expected admin flag to be kept")
		}
	})

	t.Run("account add-balance rejects a bad amount", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil, signedInSeed(t, false))

		err := runCLI(runner, "account", "add-balance", "zero")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("admin commands are denied to regular users", func(t *testing.T) {
		var hits atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hits.Add(1)
			writeBody(w, http.StatusOK, `[]`)
		})
		runner, _ := newTestRunner(t, handler, signedInSeed(t, false))

		err := runCLI(runner, "admin", "movies", "list")
		if !errors.Is(err, shared.ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
		if hits.Load() != 0 {
			t.Errorf("expected no backend requests, got %d", hits.Load())
		}
	})

	t.Run("admin accounts list for admins", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			writeBody(w, http.StatusOK, `[{"id":7,"email":"ada@example.com","firstName":"Ada","balance":50,"isAdmin":true}]`)
		})
		runner, output := newTestRunner(t, handler, signedInSeed(t, true))

		if err := runCLI(runner, "admin", "accounts", "list"); err != nil {
			t.Fatalf("admin accounts list failed: %v", err)
		}
		if !strings.Contains(output.String(), "ada@example.com") {
			t.Errorf("expected account in output, got %q", output.String())
		}
	})

	t.Run("auth callback stores the token and strips it", func(t *testing.T) {
		token := tu.SignedJWT(t, map[string]any{"sub": "9", "email": "grace@example.com"})
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == "/accounts/me" {
				writeBody(w, http.StatusOK, `{"id":9,"email":"grace@example.com","firstName":"Grace","balance":15}`)
				return
			}
			writeBody(w, http.StatusNotFound, `{}`)
		})
		runner, output := newTestRunner(t, handler, nil)

		err := runCLI(runner, "auth", "callback", "http://localhost:5173/oauth/callback?token="+token+"&next=bookings")
		if err != nil {
			t.Fatalf("auth callback failed: %v", err)
		}
		if !runner.store.IsAuthenticated() {
			t.Fatal("expected to be signed in")
		}
		if got := runner.store.Current(); got.FirstName != "Grace" || got.Balance != 15 {
			t.Errorf("expected profile from backend, got %+v", got)
		}
		if strings.Contains(output.String(), token) {
			t.Error("expected the token to be stripped from the printed URL")
		}
		if !strings.Contains(output.String(), "next=bookings") {
			t.Errorf("expected other params to be kept, got %q", output.String())
		}
	})

	t.Run("auth callback surfaces a provider error", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil, nil)

		err := runCLI(runner, "auth", "callback", "http://localhost:5173/oauth/callback?error=access_denied")
		if !errors.Is(err, shared.ErrOAuthRejected) {
			t.Fatalf("expected ErrOAuthRejected, got %v", err)
		}
		if runner.store.IsAuthenticated() {
			t.Error("expected to stay signed out")
		}
	})

	t.Run("auth callback replay reports no result", func(t *testing.T) {
		runner, output := newTestRunner(t, nil, signedInSeed(t, false))

		if err := runCLI(runner, "auth", "callback", "http://localhost:5173/oauth/callback?next=bookings"); err != nil {
			t.Fatalf("auth callback failed: %v", err)
		}
		if strings.Contains(output.String(), "Signed in") {
			t.Errorf("expected no sign-in message, got %q", output.String())
		}
		if !strings.Contains(output.String(), "No sign-in result in URL") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("auth logout clears the session", func(t *testing.T) {
		runner, output := newTestRunner(t, nil, signedInSeed(t, false))

		if err := runCLI(runner, "auth", "logout"); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if runner.store.IsAuthenticated() {
			t.Error("expected to be signed out")
		}
		if !strings.Contains(output.String(), "Signed out") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("api get prints JSON", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			writeBody(w, http.StatusOK, `{"status":"ok"}`)
		})
		runner, output := newTestRunner(t, handler, nil)

		if err := runCLI(runner, "api", "get", "health"); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		if !strings.Contains(output.String(), `"status": "ok"`) {
			t.Errorf("expected pretty JSON, got %q", output.String())
		}
	})

	t.Run("api post rejects invalid JSON", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil, nil)

		err := runCLI(runner, "api", "post", "--data", "{nope", "/movies")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
