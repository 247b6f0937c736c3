package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Session errors
	ErrMalformedSession = fmt.Errorf("malformed session data")
	ErrInvalidSession   = fmt.Errorf("invalid session")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrLoginRequired    = fmt.Errorf("login required")
	ErrAccessDenied     = fmt.Errorf("access denied")
	ErrInvalidRoute     = fmt.Errorf("invalid route")
	ErrSessionChanged   = fmt.Errorf("session changed")

	// Authentication errors
	ErrAuthFailed          = fmt.Errorf("authentication failed")
	ErrProviderUnavailable = fmt.Errorf("identity provider unavailable")
	ErrPopupBlocked        = fmt.Errorf("sign-in window could not be opened")
	ErrPromptDismissed     = fmt.Errorf("sign-in prompt dismissed")
	ErrOAuthRejected       = fmt.Errorf("sign-in rejected by provider")
	ErrTimeout             = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest          = fmt.Errorf("API request failed")
	ErrServiceUnavailable  = fmt.Errorf("service unavailable")
	ErrForbidden           = fmt.Errorf("forbidden")
	ErrNotFound            = fmt.Errorf("not found")
	ErrInsufficientBalance = fmt.Errorf("insufficient balance")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
