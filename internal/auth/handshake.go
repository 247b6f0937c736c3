package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/server"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	defaultHandshakeTimeout = 2 * time.Minute
	settleTimeout           = 2 * time.Second
)

// Handshake obtains a backend session through a third-party identity provider. Exactly one implementation
// is wired at a time.
type Handshake interface {
	Name() string
	Run(ctx context.Context, c *Controller) error
}

// NewHandshake builds the handshake selected by cfg.Mode. redirectURL builds the backend's redirect-flow
// entry point (see [services.Client.GoogleRedirectURL]).
func NewHandshake(cfg shared.OAuthConfig, redirectURL func(callback string) string, open shared.BrowserOpener, logger *log.Logger) (Handshake, error) {
	switch cfg.Mode {
	case shared.OAuthModePopup:
		return NewPopupHandshake(cfg, open, logger), nil
	case shared.OAuthModeRedirect, "":
		return NewRedirectHandshake(cfg, redirectURL, open, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown oauth mode %q", shared.ErrInvalidConfig, cfg.Mode)
	}
}

// PopupHandshake signs in with Google directly: it runs an authorization-code flow against a loopback
// callback, takes the signed id token from the token response and hands it to the backend for verification.
type PopupHandshake struct {
	Config  *oauth2.Config
	Addr    string
	Path    string
	Open    shared.BrowserOpener
	Timeout time.Duration
	Logger  *log.Logger
}

// NewPopupHandshake configures the Google endpoint from cfg.
func NewPopupHandshake(cfg shared.OAuthConfig, open shared.BrowserOpener, logger *log.Logger) *PopupHandshake {
	return &PopupHandshake{
		Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		Addr:    cfg.CallbackAddr,
		Path:    cfg.CallbackPath,
		Open:    open,
		Timeout: cfg.Timeout(),
		Logger:  logger,
	}
}

func (p *PopupHandshake) Name() string { return shared.OAuthModePopup }

// Run fails with [shared.ErrProviderUnavailable] when no client is configured or Google cannot be reached,
// [shared.ErrPopupBlocked] when the consent page cannot be shown, and [shared.ErrPromptDismissed] when the
// user declines or never answers.
func (p *PopupHandshake) Run(ctx context.Context, c *Controller) error {
	if p.Config == nil || p.Config.ClientID == "" {
		return fmt.Errorf("%w: google client id is not configured", shared.ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutOr(p.Timeout))
	defer cancel()

	config := *p.Config
	state := uuid.NewString()
	handler := server.NewCodeHandler(&config, state, p.Path)

	addr, err := listen(ctx, p.Addr, handler, p.Logger)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPopupBlocked, err)
	}
	config.RedirectURL = "http://" + addr + p.Path

	authURL := config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
	if err := openWith(p.Open, authURL); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPopupBlocked, err)
	}

	select {
	case result := <-handler.Result():
		if result.Err != nil {
			return result.Err
		}
		idToken, _ := result.Token.Extra("id_token").(string)
		if idToken == "" {
			return fmt.Errorf("%w: provider returned no id token", shared.ErrAuthFailed)
		}
		return c.exchangeGoogle(ctx, idToken)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: no answer from the consent page", shared.ErrPromptDismissed)
		}
		return ctx.Err()
	}
}

// RedirectHandshake lets the backend run the Google flow: the browser is sent to the backend, which
// redirects back to a loopback callback with ?token= or ?error=.
type RedirectHandshake struct {
	RedirectURL func(callback string) string
	Addr        string
	Path        string
	Open        shared.BrowserOpener
	Timeout     time.Duration
	Logger      *log.Logger
}

func NewRedirectHandshake(cfg shared.OAuthConfig, redirectURL func(string) string, open shared.BrowserOpener, logger *log.Logger) *RedirectHandshake {
	return &RedirectHandshake{
		RedirectURL: redirectURL,
		Addr:        cfg.CallbackAddr,
		Path:        cfg.CallbackPath,
		Open:        open,
		Timeout:     cfg.Timeout(),
		Logger:      logger,
	}
}

func (r *RedirectHandshake) Name() string { return shared.OAuthModeRedirect }

func (r *RedirectHandshake) Run(ctx context.Context, c *Controller) error {
	if r.RedirectURL == nil {
		return fmt.Errorf("%w: backend redirect url unknown", shared.ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutOr(r.Timeout))
	defer cancel()

	handler := server.NewRedirectHandler(r.Path)
	addr, err := listen(ctx, r.Addr, handler, r.Logger)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPopupBlocked, err)
	}

	target := r.RedirectURL("http://" + addr + r.Path)
	if err := openWith(r.Open, target); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPopupBlocked, err)
	}

	var callback *url.URL
	select {
	case callback = <-handler.Result():
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: waiting for sign-in callback", shared.ErrTimeout)
		}
		return ctx.Err()
	}

	_, err = c.CompleteRedirect(ctx, callback)

	// Keep serving until the browser has loaded the stripped URL.
	select {
	case <-handler.Settled():
	case <-time.After(settleTimeout):
	case <-ctx.Done():
	}
	return err
}

// listen starts the callback server for handler and returns its host:port.
func listen(ctx context.Context, addr string, handler server.Handler, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(logger))
	router.Handler(handler)

	bound, _, err := server.Listen(ctx, addr, router)
	if err != nil {
		return "", err
	}
	return bound.String(), nil
}

func openWith(open shared.BrowserOpener, target string) error {
	if open == nil {
		open = shared.OpenBrowser
	}
	return open(target)
}

func timeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultHandshakeTimeout
	}
	return d
}
