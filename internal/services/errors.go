package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/boxoffice/internal/shared"
)

const maxErrorMessage = 200

// APIError is a non-2xx response from the backend.
//
// It unwraps to a sentinel so callers can use [errors.Is]: 401 is [shared.ErrNotAuthenticated], 403 is
// [shared.ErrForbidden], 404 is [shared.ErrNotFound] and everything else is [shared.ErrAPIRequest].
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case http.StatusForbidden:
		return shared.ErrForbidden
	case http.StatusNotFound:
		return shared.ErrNotFound
	default:
		return shared.ErrAPIRequest
	}
}

func newAPIError(method, path string, resp *APIResponse) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp),
	}
}

// errorMessage prefers a JSON "error" or "message" field, then the raw body, then the status text.
func errorMessage(resp *APIResponse) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}

	if msg := strings.TrimSpace(string(resp.Body)); msg != "" && !resp.IsJSON {
		if len(msg) > maxErrorMessage {
			msg = msg[:maxErrorMessage] + "..."
		}
		return msg
	}
	return http.StatusText(resp.StatusCode)
}
