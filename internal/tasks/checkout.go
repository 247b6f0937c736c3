package tasks

import (
	"context"
	"fmt"
	"math"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
)

// CheckoutRequest describes the seats to book.
type CheckoutRequest struct {
	ShowtimeID models.ID
	Seats      int
	SeatLabels []string
}

// CheckoutResult contains everything produced by a successful checkout.
type CheckoutResult struct {
	Showtime *models.Showtime
	Booking  *models.Booking
	Cost     float64
	Identity *models.Identity // refreshed identity; the pre-booking one if the refresh failed
}

// Checkout books seats for a showtime.
//
// It fetches the showtime, checks the wallet against price × seats, creates the booking and then refreshes the
// cached balance. An insufficient balance fails with [shared.ErrInsufficientBalance] before any booking request
// is made. A failed refresh after the booking is created is logged, not returned.
func (e *BookingEngine) Checkout(ctx context.Context, progress chan<- ProgressUpdate, req CheckoutRequest) (*CheckoutResult, error) {
	if req.ShowtimeID == "" {
		return nil, fmt.Errorf("%w: showtime id is required", shared.ErrInvalidInput)
	}
	if req.Seats <= 0 {
		return nil, fmt.Errorf("%w: seats must be positive, got %d", shared.ErrInvalidInput, req.Seats)
	}
	if len(req.SeatLabels) > 0 && len(req.SeatLabels) != req.Seats {
		return nil, fmt.Errorf("%w: %d seat labels for %d seats", shared.ErrInvalidInput, len(req.SeatLabels), req.Seats)
	}

	identity, err := e.identity(ctx)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchShowtimeUpdate(req.ShowtimeID))
	showtime, err := e.api.GetShowtime(ctx, req.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch showtime: %w", err)
	}
	if showtime.AvailableSeats > 0 && req.Seats > showtime.AvailableSeats {
		return nil, fmt.Errorf("%w: only %d seats left", shared.ErrInvalidInput, showtime.AvailableSeats)
	}

	cost := math.Round(showtime.Price*float64(req.Seats)*100) / 100
	e.sendProgress(progress, verifyBalanceUpdate(cost, identity.Balance))
	if cost > identity.Balance {
		return nil, fmt.Errorf("%w: booking costs %s, balance is %s",
			shared.ErrInsufficientBalance, models.FormatMoney(cost), models.FormatMoney(identity.Balance))
	}

	e.sendProgress(progress, createBookingUpdate(req.Seats, showtime))
	booking, err := e.api.CreateBooking(ctx, models.BookingRequest{
		UserID:     identity.ID,
		ShowtimeID: req.ShowtimeID,
		Seats:      req.Seats,
		SeatLabels: req.SeatLabels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if booking.Showtime == nil {
		booking.Showtime = showtime
	}
	e.sendProgress(progress, bookedUpdate(booking))

	result := &CheckoutResult{Showtime: showtime, Booking: booking, Cost: cost, Identity: identity}

	e.sendProgress(progress, refreshAccountUpdate(nil))
	if e.refresh != nil {
		refreshed, err := e.refresh.RefreshIdentity(ctx)
		if err != nil {
			e.logger.Warn("balance refresh failed after booking", "booking", booking.ID, "error", err)
		} else {
			result.Identity = refreshed
		}
	}
	e.sendProgress(progress, refreshAccountUpdate(result.Identity))
	return result, nil
}
