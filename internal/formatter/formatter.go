// package formatter renders cinema data as plain text, CSV and Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// TimeLayout is how showtimes are printed.
const TimeLayout = "Mon Jan 2 15:04"

var strict = bluemonday.StrictPolicy()

// Clean strips markup and terminal control sequences from text that came from the backend or TMDB, so it
// is safe to print.
func Clean(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// FormatTime renders a showtime in local time. The zero time renders as "TBA".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "TBA"
	}
	return t.Local().Format(TimeLayout)
}

// MoviesToText renders movies as an aligned table.
func MoviesToText(movies []models.Movie) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tGENRE\tDURATION\tRATING")
	for _, m := range movies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ID, Truncate(Clean(m.Title), 40), Clean(m.Genre), formatMinutes(m.Duration), Clean(m.Rating))
	}
	w.Flush()
	return buf.Bytes()
}

// MovieToText renders a single movie with its description and, when available, TMDB details.
func MovieToText(m *models.Movie, tmdb *models.TMDBMovie) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s (%s)\n", Clean(m.Title), m.ID)
	if m.Genre != "" || m.Duration > 0 {
		fmt.Fprintf(&buf, "%s · %s\n", Clean(m.Genre), formatMinutes(m.Duration))
	}
	if m.ReleaseDate != "" {
		fmt.Fprintf(&buf, "Released: %s\n", Clean(m.ReleaseDate))
	}
	if len(m.Cast) > 0 {
		cast := make([]string, len(m.Cast))
		for i, c := range m.Cast {
			cast[i] = Clean(c)
		}
		fmt.Fprintf(&buf, "Cast: %s\n", strings.Join(cast, ", "))
	}
	if desc := Clean(m.Description); desc != "" {
		fmt.Fprintf(&buf, "\n%s\n", desc)
	}
	if tmdb != nil {
		fmt.Fprintf(&buf, "\nTMDB: %s (%s) rated %.1f\n", Clean(tmdb.Title), Clean(tmdb.ReleaseDate), tmdb.VoteAverage)
		if overview := Clean(tmdb.Overview); overview != "" {
			fmt.Fprintf(&buf, "%s\n", overview)
		}
	}
	return buf.Bytes()
}

// MoviesToCSV converts movies to CSV with columns: ID, Title, Genre, Duration, Rating, Release Date
func MoviesToCSV(movies []models.Movie) ([]byte, error) {
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []string{
			m.ID.String(), Clean(m.Title), Clean(m.Genre), strconv.Itoa(m.Duration), Clean(m.Rating), Clean(m.ReleaseDate),
		})
	}
	return writeCSV([]string{"ID", "Title", "Genre", "Duration", "Rating", "Release Date"}, rows)
}

// ShowtimesToText renders showtimes as an aligned table.
func ShowtimesToText(showtimes []models.Showtime) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMOVIE\tTHEATRE\tSTARTS\tPRICE\tSEATS")
	for _, s := range showtimes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			s.ID, movieTitle(s), theatreName(s), FormatTime(s.StartTime), models.FormatMoney(s.Price), s.AvailableSeats)
	}
	w.Flush()
	return buf.Bytes()
}

// TheatresToText renders theatres as an aligned table.
func TheatresToText(theatres []models.Theatre) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tCAPACITY")
	for _, t := range theatres {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.ID, Clean(t.Name), Clean(t.Location), t.Capacity)
	}
	w.Flush()
	return buf.Bytes()
}

// BookingsToText renders bookings as an aligned table.
func BookingsToText(bookings []models.Booking) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMOVIE\tSTARTS\tSEATS\tTOTAL\tSTATUS")
	for _, b := range bookings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			b.ID, bookingMovie(b), bookingStart(b), b.Seats, models.FormatMoney(b.TotalPrice), statusOrDash(b.Status))
	}
	w.Flush()
	return buf.Bytes()
}

// BookingsToCSV converts bookings to CSV with columns: ID, Showtime ID, Movie, Starts, Seats, Total, Status
func BookingsToCSV(bookings []models.Booking) ([]byte, error) {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []string{
			b.ID.String(),
			b.ShowtimeID.String(),
			bookingMovie(b),
			bookingStart(b),
			strconv.Itoa(b.Seats),
			strconv.FormatFloat(b.TotalPrice, 'f', 2, 64),
			b.Status,
		})
	}
	return writeCSV([]string{"ID", "Showtime ID", "Movie", "Starts", "Seats", "Total", "Status"}, rows)
}

// BookingsToMarkdown renders bookings as a Markdown document with a summary line.
func BookingsToMarkdown(title string, bookings []models.Booking) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)

	var total float64
	seats := 0
	for _, b := range bookings {
		total += b.TotalPrice
		seats += b.Seats
	}
	fmt.Fprintf(&buf, "**Bookings**: %d\n", len(bookings))
	fmt.Fprintf(&buf, "**Seats**: %d\n", seats)
	fmt.Fprintf(&buf, "**Spent**: %s\n\n", models.FormatMoney(total))

	if len(bookings) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| # | Movie | Starts | Seats | Total | Status |\n")
	buf.WriteString("|---|-------|--------|-------|-------|--------|\n")
	for _, b := range bookings {
		fmt.Fprintf(&buf, "| %s | %s | %s | %d | %s | %s |\n",
			b.ID, escapeCell(bookingMovie(b)), bookingStart(b), b.Seats, models.FormatMoney(b.TotalPrice), statusOrDash(b.Status))
	}
	return buf.Bytes()
}

// IdentityToText renders the signed-in identity for `auth status` and `account show`.
func IdentityToText(identity *models.Identity) []byte {
	if identity == nil {
		return []byte("Signed in (profile not loaded)\n")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Name:    %s\n", Clean(identity.Name()))
	fmt.Fprintf(&buf, "Email:   %s\n", Clean(identity.Email))
	fmt.Fprintf(&buf, "ID:      %s\n", identity.ID)
	fmt.Fprintf(&buf, "Balance: %s\n", models.FormatMoney(identity.Balance))
	if identity.IsAdmin {
		buf.WriteString("Role:    admin\n")
	}
	return buf.Bytes()
}

// NotificationsToText renders notifications, unread first marked with '*'.
func NotificationsToText(notifications []models.Notification) []byte {
	var buf bytes.Buffer
	for _, n := range notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		when := ""
		if !n.CreatedAt.IsZero() {
			when = FormatTime(n.CreatedAt) + "  "
		}
		fmt.Fprintf(&buf, "%s %-6s %s%s\n", marker, n.ID, when, Clean(n.Message))
	}
	return buf.Bytes()
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func formatMinutes(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func movieTitle(s models.Showtime) string {
	if s.Movie != nil && s.Movie.Title != "" {
		return Truncate(Clean(s.Movie.Title), 40)
	}
	return "#" + s.MovieID.String()
}

func theatreName(s models.Showtime) string {
	if s.Theatre != nil && s.Theatre.Name != "" {
		return Clean(s.Theatre.Name)
	}
	if s.TheatreID != "" {
		return "#" + s.TheatreID.String()
	}
	return "-"
}

func bookingMovie(b models.Booking) string {
	if b.Showtime != nil {
		return movieTitle(*b.Showtime)
	}
	return "showtime #" + b.ShowtimeID.String()
}

func bookingStart(b models.Booking) string {
	if b.Showtime != nil {
		return FormatTime(b.Showtime.StartTime)
	}
	return "-"
}

func statusOrDash(status string) string {
	if status == "" {
		return "-"
	}
	return Clean(status)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
