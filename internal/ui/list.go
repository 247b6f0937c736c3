package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = showtimeItem{}
	_ list.Item = bookingItem{}
	_ list.Item = notificationItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return formatter.Clean(i.movie.Title) }
func (i movieItem) Description() string {
	parts := []string{}
	if i.movie.Genre != "" {
		parts = append(parts, formatter.Clean(i.movie.Genre))
	}
	if i.movie.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%d min", i.movie.Duration))
	}
	if i.movie.Rating != "" {
		parts = append(parts, formatter.Clean(i.movie.Rating))
	}
	return strings.Join(parts, " • ")
}

// showtimeItem wraps [models.Showtime] to implement [list.Item].
type showtimeItem struct {
	showtime models.Showtime
}

func (i showtimeItem) FilterValue() string { return i.showtime.ID.String() }
func (i showtimeItem) Title() string       { return formatter.FormatTime(i.showtime.StartTime) }
func (i showtimeItem) Description() string {
	desc := fmt.Sprintf("%s • %d seats left", models.FormatMoney(i.showtime.Price), i.showtime.AvailableSeats)
	if i.showtime.Theatre != nil && i.showtime.Theatre.Name != "" {
		desc = fmt.Sprintf("%s • %s", formatter.Clean(i.showtime.Theatre.Name), desc)
	}
	return desc
}

// bookingItem wraps [models.Booking] to implement [list.Item].
type bookingItem struct {
	booking models.Booking
}

func (i bookingItem) FilterValue() string { return i.booking.ID.String() }
func (i bookingItem) Title() string {
	if st := i.booking.Showtime; st != nil && st.Movie != nil {
		return formatter.Clean(st.Movie.Title)
	}
	return "Booking #" + i.booking.ID.String()
}
func (i bookingItem) Description() string {
	desc := fmt.Sprintf("%d seat(s) • %s", i.booking.Seats, models.FormatMoney(i.booking.TotalPrice))
	if st := i.booking.Showtime; st != nil {
		desc = fmt.Sprintf("%s • %s", formatter.FormatTime(st.StartTime), desc)
	}
	if i.booking.Status != "" {
		desc = fmt.Sprintf("%s • %s", desc, formatter.Clean(i.booking.Status))
	}
	return desc
}

// notificationItem wraps [models.Notification] to implement [list.Item].
type notificationItem struct {
	notification models.Notification
}

func (i notificationItem) FilterValue() string { return i.notification.Message }
func (i notificationItem) Title() string {
	if !i.notification.Read {
		return "● " + formatter.Clean(i.notification.Message)
	}
	return formatter.Clean(i.notification.Message)
}
func (i notificationItem) Description() string {
	if i.notification.CreatedAt.IsZero() {
		return ""
	}
	return formatter.FormatTime(i.notification.CreatedAt)
}

func movieItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}

func showtimeItems(showtimes []models.Showtime) []list.Item {
	items := make([]list.Item, len(showtimes))
	for i, s := range showtimes {
		items[i] = showtimeItem{showtime: s}
	}
	return items
}

func bookingItems(bookings []models.Booking) []list.Item {
	items := make([]list.Item, len(bookings))
	for i, b := range bookings {
		items[i] = bookingItem{booking: b}
	}
	return items
}

func notificationItems(notifications []models.Notification) []list.Item {
	items := make([]list.Item, len(notifications))
	for i, n := range notifications {
		items[i] = notificationItem{notification: n}
	}
	return items
}
