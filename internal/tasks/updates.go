package tasks

import (
	"fmt"

	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchShowtime Phase = iota
	VerifyBalance
	CreateBooking
	RefreshAccount
	FetchBookings
	EnrichBookings
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchShowtime:
		return "fetch_showtime"
	case VerifyBalance:
		return "verify_balance"
	case CreateBooking:
		return "create_booking"
	case RefreshAccount:
		return "refresh_account"
	case FetchBookings:
		return "fetch_bookings"
	case EnrichBookings:
		return "enrich_bookings"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

const checkoutSteps = 4

func fetchShowtimeUpdate(id models.ID) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchShowtime,
		Step:    1,
		Total:   checkoutSteps,
		Message: fmt.Sprintf("Fetching showtime %s...", id),
	}
}

func verifyBalanceUpdate(cost, balance float64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   VerifyBalance,
		Step:    2,
		Total:   checkoutSteps,
		Message: fmt.Sprintf("Checking balance (%s of %s)...", models.FormatMoney(cost), models.FormatMoney(balance)),
	}
}

func createBookingUpdate(seats int, st *models.Showtime) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateBooking,
		Step:    3,
		Total:   checkoutSteps,
		Message: fmt.Sprintf("Booking %d seat(s) for %s...", seats, showtimeLabel(st)),
		Data:    st,
	}
}

func bookedUpdate(b *models.Booking) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateBooking,
		Step:    3,
		Total:   checkoutSteps,
		Message: fmt.Sprintf("Booking confirmed (ID: %s)", b.ID),
		Data:    b,
	}
}

func refreshAccountUpdate(identity *models.Identity) ProgressUpdate {
	if identity == nil {
		return ProgressUpdate{
			Phase:   RefreshAccount,
			Step:    4,
			Total:   checkoutSteps,
			Message: "Refreshing account balance...",
		}
	}
	return ProgressUpdate{
		Phase:   RefreshAccount,
		Step:    4,
		Total:   checkoutSteps,
		Message: fmt.Sprintf("Balance now %s", models.FormatMoney(identity.Balance)),
		Data:    identity,
	}
}

func fetchBookingsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchBookings,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d bookings", count),
	}
}

func enrichedUpdate(step, total int, b models.Booking) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichBookings,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, showtimeLabel(b.Showtime)),
	}
}

func enrichFailedUpdate(step, total int, id models.ID, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichBookings,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ booking %s: %v", step, total, id, err),
	}
}

func writeExportUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %s", path),
	}
}

func showtimeLabel(st *models.Showtime) string {
	if st == nil {
		return "unknown showtime"
	}
	title := "movie #" + st.MovieID.String()
	if st.Movie != nil && st.Movie.Title != "" {
		title = formatter.Clean(st.Movie.Title)
	}
	return fmt.Sprintf("%s at %s", title, formatter.FormatTime(st.StartTime))
}
