package formatter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
)

// Export formats accepted by [WriteBookings].
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Extension returns the file extension for format.
func Extension(format string) string {
	switch format {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// RenderBookings encodes bookings in format. Unknown formats fall back to JSON.
func RenderBookings(bookings []models.Booking, format, title string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return BookingsToCSV(bookings)
	case FormatMarkdown:
		return BookingsToMarkdown(title, bookings), nil
	case FormatText:
		return BookingsToText(bookings), nil
	default:
		return shared.MarshalJSON(bookings, true)
	}
}

// WriteBookings writes bookings to {dir}/{name}{ext}, creating dir as needed, and returns the file path.
func WriteBookings(bookings []models.Booking, format, dir, name string) (string, error) {
	data, err := RenderBookings(bookings, format, "Bookings")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, name+Extension(format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
