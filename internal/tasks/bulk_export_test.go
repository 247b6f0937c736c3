package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
	th "github.com/desertthunder/boxoffice/internal/testing"
)

func exportFixture() *fakeAPI {
	return &fakeAPI{
		showtimes: map[models.ID]*models.Showtime{
			"s1": {ID: "s1", MovieID: "m1", Price: 10},
			"s2": {ID: "s2", MovieID: "m2", Price: 8},
		},
		movies: map[models.ID]*models.Movie{
			"m1": {ID: "m1", Title: "Alien"},
			"m2": {ID: "m2", Title: "Heat"},
		},
		bookings: []models.Booking{
			{ID: "b1", ShowtimeID: "s1", Seats: 2, TotalPrice: 20},
			{ID: "b2", ShowtimeID: "s2", Seats: 1, TotalPrice: 8},
			{ID: "b3", ShowtimeID: "s3", Seats: 1, TotalPrice: 9},
			{
				ID:         "b4",
				ShowtimeID: "s4",
				Seats:      1,
				Showtime:   &models.Showtime{ID: "s4", Movie: &models.Movie{Title: "Embedded"}},
			},
		},
	}
}

func TestExportBookings(t *testing.T) {
	t.Run("enriches and writes files", func(t *testing.T) {
		api := exportFixture()
		engine, _, _ := newEngine(api, 0)
		dir := filepath.Join(t.TempDir(), "out")

		progress := make(chan ProgressUpdate, 50)
		result, err := engine.ExportBookings(context.Background(), progress, ExportOpts{
			Format:     formatter.FormatCSV,
			OutputDir:  dir,
			NumWorkers: 2,
			RateLimit:  1000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.TotalBookings != 4 {
			t.Errorf("expected 4 bookings, got %d", result.TotalBookings)
		}
		if result.Enriched != 2 || result.Failed != 1 {
			t.Errorf("expected 2 enriched and 1 failed, got %d/%d", result.Enriched, result.Failed)
		}
		if len(result.Results) != 3 {
			t.Errorf("embedded booking should not be looked up, got %d results", len(result.Results))
		}

		th.AssertFileExists(t, result.File)
		csv := th.MustReadFile(t, result.File)
		for _, want := range []string{"Alien", "Heat", "showtime #s3", "Embedded"} {
			if !strings.Contains(csv, want) {
				t.Errorf("expected %q in export:\n%s", want, csv)
			}
		}

		th.AssertFileExists(t, result.ManifestPath)
		var manifest map[string]any
		if err := json.Unmarshal([]byte(th.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if manifest["user_id"] != "u1" || manifest["failed"] != float64(1) {
			t.Errorf("unexpected manifest: %v", manifest)
		}

		var sawWrite bool
		for _, u := range drain(progress) {
			if u.Phase == WriteExport {
				sawWrite = true
			}
		}
		if !sawWrite {
			t.Error("expected a write_export progress update")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _, _ := newEngine(api, 0)
		t.Chdir(t.TempDir())

		result, err := engine.ExportBookings(context.Background(), nil, ExportOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(result.OutputDirectory, "bookings_export_") {
			t.Errorf("unexpected default directory: %s", result.OutputDirectory)
		}
		if filepath.Ext(result.File) != ".json" {
			t.Errorf("expected JSON by default, got %s", result.File)
		}
		th.AssertDirExists(t, result.OutputDirectory)
	})

	t.Run("list failure", func(t *testing.T) {
		api := &fakeAPI{listErr: shared.ErrForbidden}
		engine, _, _ := newEngine(api, 0)

		_, err := engine.ExportBookings(context.Background(), nil, ExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrForbidden) {
			t.Fatalf("expected wrapped ErrForbidden, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		engine, _, _ := newEngine(exportFixture(), 0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := engine.ExportBookings(ctx, nil, ExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("requires a session", func(t *testing.T) {
		engine, sessions, _ := newEngine(exportFixture(), 0)
		sessions.authed = false

		if _, err := engine.ExportBookings(context.Background(), nil, ExportOpts{}); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
