// Package tasks runs multi-step booking workflows with progress reporting.
//
// # Operations
//
// [BookingEngine] drives two workflows against the backend:
//
//  1. [BookingEngine.Checkout] : book seats for a showtime
//     - [FetchShowtime] loads the showtime and checks seat availability
//     - [VerifyBalance] compares price × seats with the cached wallet balance
//     - [CreateBooking] sends POST /bookings/create
//     - [RefreshAccount] re-fetches the profile so the new balance reaches every session observer
//
//  2. [BookingEngine.ExportBookings] : write the user's bookings to disk
//     - Lists bookings, then fills in missing showtimes and movies with a rate-limited worker pool
//     - Writes one file in the requested format plus export_manifest.json
//
// An insufficient balance stops checkout with [shared.ErrInsufficientBalance] before anything is written to
// the backend.
//
// # Progress Reporting
//
// Both operations accept an optional channel of [ProgressUpdate]. Sends use select with default, so a slow or
// absent reader never blocks the workflow; updates may be dropped.
package tasks
