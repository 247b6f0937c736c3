package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/boxoffice/internal/shared"
	"golang.org/x/oauth2"
)

// CodeResult is the outcome of an authorization-code callback.
type CodeResult struct {
	Token *oauth2.Token
	Err   error
}

// CodeHandler receives the provider's authorization-code callback, validates the state and exchanges the
// code. It processes a single callback; later requests are rejected.
type CodeHandler struct {
	config      *oauth2.Config
	state       string
	path        string
	resultChan  chan CodeResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCodeHandler creates a handler serving path. state should be random per flow.
func NewCodeHandler(config *oauth2.Config, state, path string) *CodeHandler {
	return &CodeHandler{
		config:     config,
		state:      state,
		path:       path,
		resultChan: make(chan CodeResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CodeHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP handles the callback request.
//
// A denied consent screen (error=access_denied) is reported as [shared.ErrPromptDismissed]; other provider
// errors as [shared.ErrOAuthRejected].
func (h *CodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()
	if query.Get("state") != h.state {
		h.Send(CodeResult{Err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		errParam := query.Get("error")
		var err error
		switch errParam {
		case "access_denied":
			err = shared.ErrPromptDismissed
		case "":
			err = fmt.Errorf("%w: callback carried no code", shared.ErrAuthFailed)
		default:
			err = fmt.Errorf("%w: %s %s", shared.ErrOAuthRejected, errParam, query.Get("error_description"))
		}
		h.Send(CodeResult{Err: err})
		writePage(w, http.StatusBadRequest, failurePage)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.Send(CodeResult{Err: exchangeError(err)})
		writePage(w, http.StatusBadGateway, failurePage)
		return
	}

	h.Send(CodeResult{Token: token})
	writePage(w, http.StatusOK, successPage)
}

// exchangeError separates a provider that answered with an error from one that could not be reached.
func exchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: token exchange failed: %v", shared.ErrAuthFailed, err)
	}
	return fmt.Errorf("%w: token exchange failed: %v", shared.ErrProviderUnavailable, err)
}

// Send sends the result through the channel (only once).
func (h *CodeHandler) Send(result CodeResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result receives exactly one result and is then closed.
func (h *CodeHandler) Result() <-chan CodeResult {
	return h.resultChan
}
