package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/server"
	"github.com/desertthunder/boxoffice/internal/services"
	"github.com/desertthunder/boxoffice/internal/session"
	"github.com/desertthunder/boxoffice/internal/shared"
)

const refreshTimeout = 15 * time.Second

// State is where the controller is in the sign-in lifecycle.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// API is the part of the backend client the controller needs.
type API interface {
	Login(ctx context.Context, email, password string) (*services.AuthResponse, error)
	Register(ctx context.Context, req services.RegisterRequest) error
	Me(ctx context.Context) (*models.Account, error)
	ExchangeGoogleCredential(ctx context.Context, idToken string) (*services.AuthResponse, error)
}

// Sessions is the mutable session store.
type Sessions interface {
	session.View
	SetSession(credential string, identity *models.Identity) error
	UpdateIdentity(credential string, update models.ProfileUpdate) error
	Revoke(credential string) error
	Clear() error
}

// Controller drives every sign-in and sign-out. It is the only writer of the session store.
type Controller struct {
	api       API
	store     Sessions
	handshake Handshake
	logger    *log.Logger

	mu      sync.Mutex
	pending bool
	refresh sync.WaitGroup
}

// NewController creates a controller. handshake may be nil when third-party sign-in is not configured.
func NewController(api API, store Sessions, handshake Handshake, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{
		api:       api,
		store:     store,
		handshake: handshake,
		logger:    shared.WithLogger(logger, "component", "auth"),
	}
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()

	switch {
	case pending:
		return Authenticating
	case c.store.IsAuthenticated():
		return Authenticated
	default:
		return Anonymous
	}
}

// begin marks a sign-in attempt. The returned func ends it; the state then follows the store, which is
// untouched by a failed attempt.
func (c *Controller) begin() (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return nil, fmt.Errorf("%w: sign-in already in progress", shared.ErrAuthFailed)
	}
	c.pending = true
	return func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
	}, nil
}

// Login signs in with email and password.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingCredentials)
	}

	end, err := c.begin()
	if err != nil {
		return err
	}
	defer end()

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.logger.Warn("login failed", "email", email, "error", err)
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return fmt.Errorf("%w: %w", shared.ErrInvalidCredentials, err)
		}
		return err
	}

	if err := c.establish(resp); err != nil {
		return err
	}
	c.logger.Info("signed in", "email", email)
	return nil
}

// establish stores the credential and identity from a login-style response.
func (c *Controller) establish(resp *services.AuthResponse) error {
	if resp == nil || resp.Token == "" {
		return fmt.Errorf("%w: response carried no credential", shared.ErrAuthFailed)
	}
	return c.store.SetSession(resp.Token, identityFromResponse(resp))
}

// identityFromResponse accepts both the nested {token, user} shape and flat account fields.
func identityFromResponse(resp *services.AuthResponse) *models.Identity {
	if resp.User != nil {
		if identity := resp.User.Identity(); identity.Validate() == nil {
			return identity
		}
	}
	if identity := resp.Account.Identity(); identity.Validate() == nil {
		return identity
	}
	return nil
}

// Register creates an account. It never signs in.
func (c *Controller) Register(ctx context.Context, req services.RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingCredentials)
	}
	if err := c.api.Register(ctx, req); err != nil {
		return err
	}
	c.logger.Info("registered account", "email", req.Email)
	return nil
}

// Logout clears the session. Logging out twice is harmless.
func (c *Controller) Logout() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	c.logger.Info("signed out")
	return nil
}

// SignInWithGoogle runs the configured third-party handshake.
func (c *Controller) SignInWithGoogle(ctx context.Context) error {
	if c.handshake == nil {
		return fmt.Errorf("%w: google sign-in is not configured", shared.ErrProviderUnavailable)
	}

	end, err := c.begin()
	if err != nil {
		return err
	}
	defer end()

	c.logger.Info("starting google sign-in", "mode", c.handshake.Name())
	if err := c.handshake.Run(ctx, c); err != nil {
		c.logger.Warn("google sign-in failed", "error", err)
		return err
	}
	return nil
}

// exchangeGoogle trades a Google id token for a backend session.
func (c *Controller) exchangeGoogle(ctx context.Context, idToken string) error {
	resp, err := c.api.ExchangeGoogleCredential(ctx, idToken)
	if err != nil {
		if errors.Is(err, shared.ErrServiceUnavailable) {
			return fmt.Errorf("%w: %w", shared.ErrProviderUnavailable, err)
		}
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	return c.establish(resp)
}

// CompleteRedirect consumes the URL the backend redirected to after a server-side sign-in and returns it
// with the token and error parameters removed.
//
// An error parameter is returned as [shared.ErrOAuthRejected] and nothing is stored. A token is stored right
// away with the identity decoded from its payload, and the authoritative profile is fetched in the
// background; [Controller.Wait] blocks until that finishes. A URL with neither parameter is a no-op.
func (c *Controller) CompleteRedirect(ctx context.Context, u *url.URL) (*url.URL, error) {
	stripped := server.StripCallbackParams(u)
	query := u.Query()

	if query.Has(server.ErrorParam) {
		reason := strings.TrimSpace(query.Get(server.ErrorParam) + " " + query.Get("error_description"))
		return stripped, fmt.Errorf("%w: %s", shared.ErrOAuthRejected, reason)
	}
	if !query.Has(server.TokenParam) {
		return stripped, nil
	}

	credential := query.Get(server.TokenParam)
	if credential == "" {
		return stripped, fmt.Errorf("%w: empty token", shared.ErrOAuthRejected)
	}

	identity, err := DecodeClaims(credential)
	if err != nil {
		c.logger.Warn("storing credential without provisional identity", "error", err)
	}
	if err := c.store.SetSession(credential, identity); err != nil {
		return stripped, err
	}

	c.refresh.Add(1)
	go func() {
		defer c.refresh.Done()
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		c.confirm(refreshCtx, credential)
	}()
	return stripped, nil
}

// confirm fetches the profile for credential. A rejected credential ends the session. Results for a session
// that was replaced or cleared meanwhile are dropped by the store.
func (c *Controller) confirm(ctx context.Context, credential string) {
	account, err := c.api.Me(ctx)

	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		c.logger.Warn("backend rejected credential, signing out", "error", err)
		err = c.store.Revoke(credential)
	case err != nil:
		c.logger.Warn("profile fetch failed, keeping provisional identity", "error", err)
		return
	default:
		err = c.store.UpdateIdentity(credential, account.Identity().Profile())
	}

	switch {
	case errors.Is(err, shared.ErrSessionChanged), errors.Is(err, shared.ErrNotAuthenticated):
		c.logger.Debug("session changed during profile fetch, discarding result")
	case err != nil:
		c.logger.Error("failed to store profile", "error", err)
	}
}

// Wait blocks until background profile fetches have finished.
func (c *Controller) Wait() {
	c.refresh.Wait()
}

// RefreshIdentity fetches the current profile and merges it into the session.
func (c *Controller) RefreshIdentity(ctx context.Context) (*models.Identity, error) {
	credential, ok := c.store.Credential()
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}

	account, err := c.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.UpdateIdentity(credential, account.Identity().Profile()); err != nil {
		return nil, err
	}
	return c.store.Current(), nil
}

// ApplyProfile merges the response of an account write into the session. Only the fields the backend sent
// are applied. A nil update, from a write answered without a body, fetches the profile instead.
func (c *Controller) ApplyProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Identity, error) {
	credential, ok := c.store.Credential()
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}
	if update == nil {
		return c.RefreshIdentity(ctx)
	}

	if err := c.store.UpdateIdentity(credential, *update); err != nil {
		return nil, err
	}
	return c.store.Current(), nil
}
