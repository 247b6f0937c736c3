package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/boxoffice/internal/shared"
	tu "github.com/desertthunder/boxoffice/internal/testing"
)

func newTestClient(baseURL string, creds CredentialSource) *Client {
	return NewClient(ClientOpts{BaseURL: baseURL, Credentials: creds, Logger: shared.NewLogger(io.Discard)})
}

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			c := NewClient(ClientOpts{Logger: shared.NewLogger(io.Discard)})

			if c.BaseURL() != defaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", defaultBaseURL, c.BaseURL())
			}
			if c.httpClient.Timeout != defaultTimeout {
				t.Errorf("expected timeout %v, got %v", defaultTimeout, c.httpClient.Timeout)
			}
		})

		t.Run("Trailing Slash Trimmed", func(t *testing.T) {
			c := newTestClient("http://example.com/api/", nil)
			if c.BaseURL() != "http://example.com/api" {
				t.Errorf("expected trailing slash to be trimmed, got %s", c.BaseURL())
			}
		})
	})

	t.Run("Bearer Transport", func(t *testing.T) {
		t.Run("Attaches Credential", func(t *testing.T) {
			var auth, requestID string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				requestID = r.Header.Get("X-Request-ID")
				w.Write([]byte("{}"))
			}))
			defer server.Close()

			c := newTestClient(server.URL, tu.StaticCredentials("abc.def.ghi"))
			if _, err := c.Get(context.Background(), "/accounts/me"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if auth != "Bearer abc.def.ghi" {
				t.Errorf("expected bearer header, got %q", auth)
			}
			if requestID == "" {
				t.Error("expected X-Request-ID to be set")
			}
		})

		t.Run("Omits Header Without Credential", func(t *testing.T) {
			var auth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				w.Write([]byte("[]"))
			}))
			defer server.Close()

			c := newTestClient(server.URL, tu.StaticCredentials(""))
			c.Get(context.Background(), "/movies")

			if auth != "" {
				t.Errorf("expected no Authorization header, got %q", auth)
			}
		})

		t.Run("Does Not Mutate Caller Request", func(t *testing.T) {
			rt := tu.NewMockRoundTripper(tu.JSONResponse(http.StatusOK, "{}"), nil)
			transport := &bearerTransport{source: tu.StaticCredentials("tok"), base: rt}

			req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
			if _, err := transport.RoundTrip(req); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if req.Header.Get("Authorization") != "" {
				t.Error("expected original request to be left untouched")
			}
			if rt.Request.Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("expected cloned request to carry the credential, got %q", rt.Request.Header.Get("Authorization"))
			}
		})
	})

	t.Run("Do", func(t *testing.T) {
		t.Run("JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("expected JSON content type, got %s", ct)
				}
				body, _ := io.ReadAll(r.Body)
				if string(body) != `{"a":1}` {
					t.Errorf("unexpected body %s", body)
				}
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(map[string]string{"status": "created"})
			}))
			defer server.Close()

			c := newTestClient(server.URL, nil)
			resp, err := c.Post(context.Background(), "/things", []byte(`{"a":1}`))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusCreated {
				t.Errorf("expected status 201, got %d", resp.StatusCode)
			}
			if !resp.IsJSON || resp.JSONData == nil {
				t.Error("expected response to be parsed as JSON")
			}
		})

		t.Run("Error Status Is Not An Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
				w.Write([]byte("short and stout"))
			}))
			defer server.Close()

			resp, err := newTestClient(server.URL, nil).Get(context.Background(), "/pot")
			if err != nil {
				t.Fatalf("expected raw access to return the response, got %v", err)
			}
			if resp.OK() {
				t.Error("expected OK to be false")
			}
			if resp.IsJSON {
				t.Error("expected plain text body")
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := newTestClient("http://example.com", nil).Get(context.Background(), "/test\x00invalid")
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			c := NewClient(ClientOpts{
				BaseURL:   "http://example.com",
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
				Logger:    shared.NewLogger(io.Discard),
			})

			_, err := c.Get(context.Background(), "/movies")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: &tu.FCloser{}}
			c := NewClient(ClientOpts{
				BaseURL:   "http://example.com",
				Transport: tu.NewMockRoundTripper(resp, nil),
				Logger:    shared.NewLogger(io.Discard),
			})

			_, err := c.Get(context.Background(), "/movies")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read error, got %v", err)
			}
		})

		t.Run("Canceled Context", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			c := NewClient(ClientOpts{BaseURL: "http://example.com", RequestsPerSecond: 1, Logger: shared.NewLogger(io.Discard)})
			c.limiter.Allow()

			if _, err := c.Get(ctx, "/movies"); !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		status int
		body   string
		target error
		msg    string
	}{
		{http.StatusUnauthorized, `{"error":"token expired"}`, shared.ErrNotAuthenticated, "token expired"},
		{http.StatusForbidden, `{"message":"admins only"}`, shared.ErrForbidden, "admins only"},
		{http.StatusNotFound, `movie not found`, shared.ErrNotFound, "movie not found"},
		{http.StatusInternalServerError, ``, shared.ErrAPIRequest, "Internal Server Error"},
		{http.StatusBadRequest, `{"detail":"nope"}`, shared.ErrAPIRequest, "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, nil).GetMovie(context.Background(), "7")
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if apiErr.Path != "/movies/7" || apiErr.Method != http.MethodGet {
				t.Errorf("unexpected request in error: %s %s", apiErr.Method, apiErr.Path)
			}
			if apiErr.Message != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, apiErr.Message)
			}
		})
	}

	t.Run("Long Body Truncated", func(t *testing.T) {
		resp := &APIResponse{StatusCode: http.StatusBadGateway, Body: []byte(strings.Repeat("x", 500))}
		msg := errorMessage(resp)
		if len(msg) != maxErrorMessage+3 {
			t.Errorf("expected truncated message, got length %d", len(msg))
		}
	})
}
