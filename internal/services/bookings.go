package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
)

// ListBookings returns the bookings of userID, or all bookings visible to the caller when userID is empty.
func (c *Client) ListBookings(ctx context.Context, userID models.ID) ([]models.Booking, error) {
	path := "/bookings"
	if userID != "" {
		path += "?" + url.Values{"userId": {userID.String()}}.Encode()
	}

	var bookings []models.Booking
	if err := c.call(ctx, http.MethodGet, path, nil, &bookings); err != nil {
		return nil, err
	}
	return nonNil(bookings), nil
}

// CreateBooking reserves seats for a showtime.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var booking models.Booking
	if err := c.call(ctx, http.MethodPost, "/bookings/create", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking deletes a booking.
func (c *Client) CancelBooking(ctx context.Context, id models.ID) error {
	return c.call(ctx, http.MethodDelete, "/bookings/"+escape(id), nil, nil)
}

// ListNotifications returns notifications for userID. Failures are logged and yield an empty slice.
func (c *Client) ListNotifications(ctx context.Context, userID models.ID) []models.Notification {
	path := "/notifications"
	if userID != "" {
		path += "?" + url.Values{"userId": {userID.String()}}.Encode()
	}

	var notifications []models.Notification
	if err := c.call(ctx, http.MethodGet, path, nil, &notifications); err != nil {
		c.fallback("ListNotifications", err)
		return []models.Notification{}
	}
	return nonNil(notifications)
}

// MarkNotificationRead flags a notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id models.ID) error {
	return c.call(ctx, http.MethodPut, "/notifications/"+escape(id)+"/read", nil, nil)
}
