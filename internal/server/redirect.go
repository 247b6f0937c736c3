package server

import (
	"net/http"
	"net/url"
	"sync"
)

// Callback parameters appended by the backend after a redirect-based sign-in.
const (
	TokenParam = "token"
	ErrorParam = "error"
)

// RedirectHandler receives the backend's redirect after a server-side sign-in. The full callback URL is
// delivered once; the browser is then sent to the same path with the token and error parameters removed.
type RedirectHandler struct {
	path       string
	resultChan chan *url.URL
	settled    chan struct{}
	once       sync.Once
	settleOnce sync.Once
	mu         sync.Mutex
	delivered  bool
}

// NewRedirectHandler creates a handler serving path.
func NewRedirectHandler(path string) *RedirectHandler {
	return &RedirectHandler{
		path:       path,
		resultChan: make(chan *url.URL, 1),
		settled:    make(chan struct{}),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *RedirectHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP delivers the first callback carrying a token or error and answers 303 to the stripped URL.
// Requests without either parameter, including the follow-up to that redirect, render the done page.
func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has(TokenParam) && !query.Has(ErrorParam) {
		writePage(w, http.StatusOK, successPage)
		h.mu.Lock()
		delivered := h.delivered
		h.mu.Unlock()
		if delivered {
			h.settleOnce.Do(func() { close(h.settled) })
		}
		return
	}

	callback := *r.URL
	callback.Scheme = "http"
	callback.Host = r.Host
	h.once.Do(func() {
		h.mu.Lock()
		h.delivered = true
		h.mu.Unlock()
		h.resultChan <- &callback
		close(h.resultChan)
	})

	http.Redirect(w, r, StripCallbackParams(r.URL).RequestURI(), http.StatusSeeOther)
}

// Result receives the callback URL once and is then closed.
func (h *RedirectHandler) Result() <-chan *url.URL {
	return h.resultChan
}

// Settled is closed once the browser has loaded the stripped URL after a delivery.
func (h *RedirectHandler) Settled() <-chan struct{} {
	return h.settled
}

// StripCallbackParams returns a copy of u without the token and error parameters. Other parameters are kept.
func StripCallbackParams(u *url.URL) *url.URL {
	stripped := *u
	query := stripped.Query()
	query.Del(TokenParam)
	query.Del(ErrorParam)
	query.Del("error_description")
	stripped.RawQuery = query.Encode()
	return &stripped
}
