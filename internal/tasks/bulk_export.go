package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for booking exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Output directory (default: bookings_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// EnrichResult is the outcome of looking up one booking's showtime.
type EnrichResult struct {
	BookingID models.ID `json:"booking_id"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// ExportResult summarises a booking export. It is also written as the manifest.
type ExportResult struct {
	UserID          models.ID        `json:"user_id"`
	TotalBookings   int              `json:"total_bookings"`
	Enriched        int              `json:"enriched"`
	Failed          int              `json:"failed"`
	Format          string           `json:"format"`
	File            string           `json:"file"`
	OutputDirectory string           `json:"output_directory"`
	ManifestPath    string           `json:"-"`
	Results         []EnrichResult   `json:"results"`
	Bookings        []models.Booking `json:"-"`
}

type enrichJob struct {
	index   int
	booking models.Booking
}

type enrichOutcome struct {
	index   int
	booking models.Booking
	err     error
}

// ExportBookings writes the signed-in user's bookings to a file.
//
// Bookings that arrive without an embedded showtime (or whose showtime lacks the movie) are enriched by a
// rate-limited worker pool. Lookup failures are recorded in the manifest and the booking is exported as is.
func (e *BookingEngine) ExportBookings(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	identity, err := e.identity(ctx)
	if err != nil {
		return nil, err
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("bookings_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	bookings, err := e.api.ListBookings(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	e.sendProgress(progress, fetchBookingsUpdate(len(bookings)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		UserID:          identity.ID,
		TotalBookings:   len(bookings),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Results:         make([]EnrichResult, 0, len(bookings)),
	}

	pending := make([]enrichJob, 0, len(bookings))
	for i, b := range bookings {
		if needsEnrichment(b) {
			pending = append(pending, enrichJob{index: i, booking: b})
		}
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan enrichJob, len(pending))
	outcomes := make(chan enrichOutcome, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.enrichWorker(ctx, &wg, limiter, jobs, outcomes)
	}

	for _, job := range pending {
		jobs <- job
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for out := range outcomes {
		completed++
		if out.err != nil {
			result.Failed++
			result.Results = append(result.Results, EnrichResult{BookingID: out.booking.ID, Error: out.err.Error()})
			e.sendProgress(progress, enrichFailedUpdate(completed, len(pending), out.booking.ID, out.err))
			continue
		}
		bookings[out.index] = out.booking
		result.Enriched++
		result.Results = append(result.Results, EnrichResult{BookingID: out.booking.ID, Success: true})
		e.sendProgress(progress, enrichedUpdate(completed, len(pending), out.booking))
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}

	path, err := formatter.WriteBookings(bookings, opts.Format, opts.OutputDir, "bookings")
	if err != nil {
		return result, err
	}
	result.File = path
	result.Bookings = bookings
	e.sendProgress(progress, writeExportUpdate(path))

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func needsEnrichment(b models.Booking) bool {
	return b.ShowtimeID != "" && (b.Showtime == nil || b.Showtime.Movie == nil)
}

// enrichWorker looks up showtimes (and their movies) for jobs until the channel closes or ctx ends.
func (e *BookingEngine) enrichWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan enrichJob,
	outcomes chan<- enrichOutcome,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			outcomes <- enrichOutcome{index: job.index, booking: job.booking, err: ctx.Err()}
			continue
		default:
		}

		b, err := e.enrich(ctx, limiter, job.booking)
		outcomes <- enrichOutcome{index: job.index, booking: b, err: err}
	}
}

func (e *BookingEngine) enrich(ctx context.Context, limiter *rate.Limiter, b models.Booking) (models.Booking, error) {
	showtime := b.Showtime
	if showtime == nil {
		if err := limiter.Wait(ctx); err != nil {
			return b, err
		}
		st, err := e.api.GetShowtime(ctx, b.ShowtimeID)
		if err != nil {
			return b, fmt.Errorf("%w: showtime %s: %v", shared.ErrAPIRequest, b.ShowtimeID, err)
		}
		showtime = st
	}

	if showtime.Movie == nil && showtime.MovieID != "" {
		if err := limiter.Wait(ctx); err != nil {
			return b, err
		}
		movie, err := e.api.GetMovie(ctx, showtime.MovieID)
		if err != nil {
			return b, fmt.Errorf("%w: movie %s: %v", shared.ErrAPIRequest, showtime.MovieID, err)
		}
		enriched := *showtime
		enriched.Movie = movie
		showtime = &enriched
	}

	b.Showtime = showtime
	return b, nil
}
