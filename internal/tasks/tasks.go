package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
)

// BookingAPI is the part of the backend client the engine drives.
type BookingAPI interface {
	GetMovie(ctx context.Context, id models.ID) (*models.Movie, error)
	GetShowtime(ctx context.Context, id models.ID) (*models.Showtime, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	ListBookings(ctx context.Context, userID models.ID) ([]models.Booking, error)
}

// IdentityRefresher fetches the authoritative profile and merges it into the session.
type IdentityRefresher interface {
	RefreshIdentity(ctx context.Context) (*models.Identity, error)
}

// Identities exposes the cached identity of the signed-in user.
type Identities interface {
	Current() *models.Identity
	IsAuthenticated() bool
}

// BookingEngine runs multi-step booking workflows.
type BookingEngine struct {
	api      BookingAPI
	refresh  IdentityRefresher
	sessions Identities
	logger   *log.Logger
}

// NewBookingEngine creates a [BookingEngine]. refresh is usually the auth controller and sessions the
// session store.
func NewBookingEngine(api BookingAPI, refresh IdentityRefresher, sessions Identities, logger *log.Logger) *BookingEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BookingEngine{
		api:      api,
		refresh:  refresh,
		sessions: sessions,
		logger:   shared.WithLogger(logger, "component", "tasks"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *BookingEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// identity returns the cached identity, fetching the profile when only a credential is held.
func (e *BookingEngine) identity(ctx context.Context) (*models.Identity, error) {
	if e.sessions == nil || !e.sessions.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	if identity := e.sessions.Current(); identity != nil && identity.ID != "" {
		return identity, nil
	}
	if e.refresh == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return e.refresh.RefreshIdentity(ctx)
}
