// Raw HTTP access to the booking backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "http://localhost:2112"
	defaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-ID"
)

// CredentialSource supplies the bearer credential at request time. [session.Store] implements it.
type CredentialSource interface {
	Credential() (string, bool)
}

// ClientOpts configures a [Client]. Zero values fall back to defaults.
type ClientOpts struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Credentials       CredentialSource
	Transport         http.RoundTripper
	Logger            *log.Logger
}

// Client talks to the booking backend. Every request is throttled by a [rate.Limiter] and carries the
// current bearer credential, if any.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a new backend client.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &bearerTransport{source: opts.Credentials, base: opts.Transport},
		},
		limiter: rate.NewLimiter(limit, opts.Burst),
		logger:  shared.WithLogger(opts.Logger, "component", "api"),
	}
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// bearerTransport attaches the session credential and a request id.
type bearerTransport struct {
	source CredentialSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.source != nil && r.Header.Get("Authorization") == "" {
		if credential, ok := t.source.Credential(); ok {
			tok := &oauth2.Token{AccessToken: credential, TokenType: "Bearer"}
			tok.SetAuthHeader(r)
		}
	}
	if r.Header.Get(requestIDHeader) == "" {
		r.Header.Set(requestIDHeader, uuid.NewString())
	}
	return t.base.RoundTrip(r)
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do performs a request and returns the raw response whatever its status. Only transport failures are
// returned as errors; they wrap [shared.ErrServiceUnavailable].
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*APIResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrServiceUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (c *Client) Get(ctx context.Context, path string) (*APIResponse, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	if data == nil {
		data = []byte("{}")
	}
	return c.Do(ctx, http.MethodPost, path, data)
}

// call sends body as JSON and decodes a 2xx response into result. Non-2xx responses become [*APIError].
// An empty response body leaves result untouched.
func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = data
	}

	resp, err := c.Do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return newAPIError(method, path, resp)
	}

	if result == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return fmt.Errorf("%w: failed to decode %s %s: %v", shared.ErrAPIRequest, method, path, err)
	}
	return nil
}

// fallback logs a failure that the caller has chosen to swallow.
func (c *Client) fallback(op string, err error) {
	c.logger.Warn("request failed, showing empty result", "op", op, "error", err)
}
