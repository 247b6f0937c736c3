package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/desertthunder/boxoffice/internal/tasks"
	"github.com/urfave/cli/v3"
)

var checkoutIcons = map[tasks.Phase]string{
	tasks.FetchShowtime:  "🎬",
	tasks.VerifyBalance:  "💳",
	tasks.CreateBooking:  "🎟",
	tasks.RefreshAccount: "👤",
}

var exportIcons = map[tasks.Phase]string{
	tasks.FetchBookings:  "📥",
	tasks.EnrichBookings: "🔎",
	tasks.WriteExport:    "💾",
}

// BookingsList prints the signed-in user's bookings.
func (r *Runner) BookingsList(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.userID(ctx)
	if err != nil {
		return err
	}

	bookings, err := r.api.ListBookings(ctx, userID)
	if err != nil {
		return err
	}

	format := strings.ToLower(cmd.String("format"))
	switch format {
	case formatter.FormatText, "":
		if len(bookings) == 0 {
			return r.writePlain("No bookings yet\n")
		}
		return r.writeBytes(formatter.BookingsToText(bookings))
	case formatter.FormatJSON:
		return r.writeJSON(bookings, true)
	case formatter.FormatCSV, formatter.FormatMarkdown:
		data, err := formatter.RenderBookings(bookings, format, "My bookings")
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// BookingsCreate books seats for a showtime, printing each checkout phase.
func (r *Runner) BookingsCreate(ctx context.Context, cmd *cli.Command) error {
	req := tasks.CheckoutRequest{
		ShowtimeID: models.ID(strings.TrimSpace(cmd.String("showtime"))),
		Seats:      int(cmd.Int("seats")),
		SeatLabels: cmd.StringSlice("seat"),
	}

	progress, stop := r.printProgress(checkoutIcons)
	result, err := r.engine.Checkout(ctx, progress, req)
	stop()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Booking, true)
	}

	r.writePlainln("✓ Booking confirmed")
	r.writeBytes(formatter.BookingsToText([]models.Booking{*result.Booking}))
	r.writePlain("\nCharged:  %s\n", models.FormatMoney(result.Cost))
	if result.Identity != nil {
		r.writePlain("Balance:  %s\n", models.FormatMoney(result.Identity.Balance))
	}
	return nil
}

// BookingsCancel cancels a booking and refreshes the cached balance.
func (r *Runner) BookingsCancel(ctx context.Context, cmd *cli.Command) error {
	id := models.ID(strings.TrimSpace(cmd.StringArg("id")))
	if id == "" {
		return fmt.Errorf("%w: booking id", shared.ErrMissingArgument)
	}

	if err := r.api.CancelBooking(ctx, id); err != nil {
		return err
	}
	r.logger.Info("booking cancelled", "id", id)

	if _, err := r.auth.RefreshIdentity(ctx); err != nil {
		r.logger.Warn("balance refresh failed", "error", err)
	}
	return r.writePlain("✓ Booking %s cancelled\n", id)
}

// BookingsExport writes the signed-in user's bookings to a directory with a manifest.
func (r *Runner) BookingsExport(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.ExportOpts{
		Format:     strings.ToLower(cmd.String("format")),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}
	switch opts.Format {
	case formatter.FormatJSON, formatter.FormatCSV, formatter.FormatMarkdown, formatter.FormatText:
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, opts.Format)
	}

	progress, stop := r.printProgress(exportIcons)
	result, err := r.engine.ExportBookings(ctx, progress, opts)
	stop()
	if err != nil {
		return err
	}

	r.writePlainHeader("Export complete")
	r.writePlain("Bookings:  %d\n", result.TotalBookings)
	r.writePlain("Enriched:  %d\n", result.Enriched)
	if result.Failed > 0 {
		r.writePlain("Failed:    %d\n", result.Failed)
	}
	r.writePlain("File:      %s\n", result.File)
	return r.writePlain("Manifest:  %s\n", result.ManifestPath)
}
