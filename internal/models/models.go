// package models defines the data model for the cinema booking client
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a backend identifier. The backend emits both numeric and string IDs, so both decode into the same
// string form.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Movie is a film listed by the cinema.
type Movie struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Genre       string   `json:"genre,omitempty"`
	Duration    int      `json:"duration,omitempty"` // minutes
	Rating      string   `json:"rating,omitempty"`
	PosterURL   string   `json:"posterUrl,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Cast        []string `json:"cast,omitempty"`
}

// Genre is an admin-managed movie category.
type Genre struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Theatre is a screening room.
type Theatre struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

// Showtime is a scheduled screening of a movie in a theatre.
type Showtime struct {
	ID             ID        `json:"id"`
	MovieID        ID        `json:"movieId"`
	TheatreID      ID        `json:"theatreId,omitempty"`
	StartTime      time.Time `json:"startTime"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"availableSeats"`
	Movie          *Movie    `json:"movie,omitempty"`
	Theatre        *Theatre  `json:"theatre,omitempty"`
}

// Booking is a reservation of seats for a showtime.
type Booking struct {
	ID         ID        `json:"id"`
	UserID     ID        `json:"userId"`
	ShowtimeID ID        `json:"showtimeId"`
	Seats      int       `json:"seats"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	Showtime   *Showtime `json:"showtime,omitempty"`
}

// BookingRequest is the body of POST /bookings/create.
type BookingRequest struct {
	UserID     ID       `json:"userId"`
	ShowtimeID ID       `json:"showtimeId"`
	Seats      int      `json:"seats"`
	SeatLabels []string `json:"seatLabels,omitempty"`
}

// Validate checks the request before it is sent.
func (r BookingRequest) Validate() error {
	if r.ShowtimeID == "" {
		return fmt.Errorf("showtime id is required")
	}
	if r.Seats <= 0 {
		return fmt.Errorf("seats must be positive, got %d", r.Seats)
	}
	return nil
}

// Notification is a message addressed to an account.
type Notification struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"userId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Account is the backend's full account record, as returned by the account and admin endpoints.
type Account struct {
	ID        ID      `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	IsAdmin   bool    `json:"isAdmin"`
	Balance   float64 `json:"balance"`
}

// Identity converts the account into the cached session identity.
func (a Account) Identity() *Identity {
	return &Identity{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		IsAdmin:   a.IsAdmin,
		Balance:   a.Balance,
	}
}

// AccountUpdate is the body of PUT /accounts/:id. Nil fields are omitted.
type AccountUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"password,omitempty"`
	IsAdmin   *bool   `json:"isAdmin,omitempty"`
}

// Empty reports whether no field is set.
func (u AccountUpdate) Empty() bool {
	return u.Email == nil && u.FirstName == nil && u.LastName == nil && u.Password == nil && u.IsAdmin == nil
}

// FormatMoney renders an amount the way balances and prices are displayed.
func FormatMoney(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', 2, 64)
}

// normalizeEmail lowercases and trims an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TMDBMovie is a search result from The Movie Database, used to enrich listings.
type TMDBMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}
