package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/session"
	"github.com/desertthunder/boxoffice/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgMovieLoaded
	MsgBookingsLoaded
	MsgBookingCancelled
	MsgNotificationsLoaded
	MsgAccountLoaded
	MsgAdminMoviesLoaded
	MsgLoginFinished
	MsgProgressUpdate
	MsgCheckoutComplete
	MsgSessionChanged
)

// movieDetail is the payload of [MsgMovieLoaded].
type movieDetail struct {
	movie     *models.Movie
	showtimes []models.Showtime
	tmdb      *models.TMDBMovie
}

func moviesLoadedMsg(movies []models.Movie) Msg {
	return Msg{kind: MsgMoviesLoaded, data: movies}
}

func movieLoadedMsg(detail movieDetail, err error) Msg {
	return Msg{kind: MsgMovieLoaded, data: detail, err: err}
}

func bookingsLoadedMsg(bookings []models.Booking, err error) Msg {
	return Msg{kind: MsgBookingsLoaded, data: bookings, err: err}
}

func bookingCancelledMsg(id models.ID, err error) Msg {
	return Msg{kind: MsgBookingCancelled, data: id, err: err}
}

func notificationsLoadedMsg(notifications []models.Notification) Msg {
	return Msg{kind: MsgNotificationsLoaded, data: notifications}
}

func accountLoadedMsg(identity *models.Identity, err error) Msg {
	return Msg{kind: MsgAccountLoaded, data: identity, err: err}
}

func adminMoviesLoadedMsg(movies []models.Movie, err error) Msg {
	return Msg{kind: MsgAdminMoviesLoaded, data: movies, err: err}
}

func loginFinishedMsg(err error) Msg {
	return Msg{kind: MsgLoginFinished, err: err}
}

func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

func checkoutCompleteMsg(result *tasks.CheckoutResult, err error) Msg {
	return Msg{kind: MsgCheckoutComplete, data: result, err: err}
}

func sessionChangedMsg(snap session.Snapshot) Msg {
	return Msg{kind: MsgSessionChanged, data: snap}
}
