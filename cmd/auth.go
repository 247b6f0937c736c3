package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/server"
	"github.com/desertthunder/boxoffice/internal/services"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: --email and --password (or BOXOFFICE_PASSWORD) are required", shared.ErrMissingArgument)
	}

	r.logger.Info("signing in", "email", email)
	if err := r.auth.Login(ctx, email, password); err != nil {
		return err
	}

	r.writePlain("✓ Signed in\n")
	return r.writeBytes(formatter.IdentityToText(r.store.Current()))
}

// AuthRegister creates an account. The backend does not sign the new account in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	req := services.RegisterRequest{
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
		Email:     cmd.String("email"),
		Password:  cmd.String("password"),
	}

	r.logger.Info("registering account", "email", req.Email)
	if err := r.auth.Register(ctx, req); err != nil {
		return err
	}

	r.writePlain("✓ Account created for %s\n", req.Email)
	return r.writePlain("Run `boxoffice auth login --email %s` to sign in\n", req.Email)
}

// AuthLogout forgets the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.store.IsAuthenticated() {
		return r.writePlain("Not signed in\n")
	}
	if err := r.auth.Logout(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthGoogle runs the configured Google sign-in handshake in the browser.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	r.writePlain("Opening the browser for Google sign-in (mode: %s)...\n", r.config.OAuth.Mode)
	if err := r.auth.SignInWithGoogle(ctx); err != nil {
		return err
	}
	r.auth.Wait()

	r.writePlain("✓ Signed in with Google\n")
	return r.writeBytes(formatter.IdentityToText(r.store.Current()))
}

// AuthCallback completes a sign-in from a URL the backend redirected to, e.g. one pasted from the browser.
func (r *Runner) AuthCallback(ctx context.Context, cmd *cli.Command) error {
	raw := strings.TrimSpace(cmd.StringArg("url"))
	if raw == "" {
		return fmt.Errorf("%w: callback url", shared.ErrMissingArgument)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	before, _ := r.store.Credential()
	stripped, err := r.auth.CompleteRedirect(ctx, u)
	if err != nil {
		return err
	}
	r.auth.Wait()

	after, _ := r.store.Credential()
	if after == "" || (after == before && u.Query().Get(server.TokenParam) != after) {
		r.writePlain("No sign-in result in URL\n")
	} else {
		r.writePlain("✓ Signed in\n")
		r.writeBytes(formatter.IdentityToText(r.store.Current()))
	}
	return r.writePlain("Continue at: %s\n", stripped.String())
}

// AuthStatus reports the stored session, optionally refreshing the profile first.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("refresh") && r.store.IsAuthenticated() {
		if _, err := r.auth.RefreshIdentity(ctx); err != nil {
			r.logger.Warn("profile refresh failed, showing cached identity", "error", err)
		}
	}

	snap := r.store.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap, true)
	}

	r.writePlainHeader("Session")
	r.writePlain("State:   %s\n", r.auth.State())
	r.writePlain("Backend: %s\n", r.api.BaseURL())
	if !snap.Authenticated {
		return r.writePlain("Not signed in\n")
	}
	return r.writeBytes(formatter.IdentityToText(snap.Identity))
}
