package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountShow fetches the profile, merges it into the session and prints it.
func (r *Runner) AccountShow(ctx context.Context, cmd *cli.Command) error {
	identity, err := r.auth.RefreshIdentity(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(identity, true)
	}
	r.writePlainHeader("Account")
	return r.writeBytes(formatter.IdentityToText(identity))
}

// accountUpdate collects the flags that were set into a partial update.
func accountUpdate(cmd *cli.Command, admin bool) models.AccountUpdate {
	var update models.AccountUpdate
	set := func(name string) *string {
		if !cmd.IsSet(name) {
			return nil
		}
		v := cmd.String(name)
		return &v
	}

	update.Email = set("email")
	update.FirstName = set("first-name")
	update.LastName = set("last-name")
	update.Password = set("password")
	if admin && cmd.IsSet("admin") {
		v := cmd.Bool("admin")
		update.IsAdmin = &v
	}
	return update
}

// AccountUpdate changes the signed-in user's profile.
func (r *Runner) AccountUpdate(ctx context.Context, cmd *cli.Command) error {
	update := accountUpdate(cmd, false)
	if update.Empty() {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	id, err := r.userID(ctx)
	if err != nil {
		return err
	}

	profile, err := r.api.UpdateAccount(ctx, id, update)
	if err != nil {
		return err
	}

	r.writePlain("✓ Profile updated\n")
	identity, err := r.auth.ApplyProfile(ctx, profile)
	if err != nil {
		r.logger.Warn("failed to cache updated profile", "error", err)
		return nil
	}
	return r.writeBytes(formatter.IdentityToText(identity))
}

// AccountAddBalance tops up the wallet.
func (r *Runner) AccountAddBalance(ctx context.Context, cmd *cli.Command) error {
	raw := strings.TrimPrefix(strings.TrimSpace(cmd.StringArg("amount")), "$")
	if raw == "" {
		return fmt.Errorf("%w: amount", shared.ErrMissingArgument)
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("%w: amount must be a positive number, got %q", shared.ErrInvalidArgument, raw)
	}

	id, err := r.userID(ctx)
	if err != nil {
		return err
	}

	profile, err := r.api.AddBalance(ctx, id, amount)
	if err != nil {
		return err
	}

	identity, err := r.auth.ApplyProfile(ctx, profile)
	if err != nil {
		r.logger.Warn("failed to cache new balance", "error", err)
		return r.writePlain("✓ Added %s\n", models.FormatMoney(amount))
	}
	return r.writePlain("✓ Added %s, balance is now %s\n", models.FormatMoney(amount), models.FormatMoney(identity.Balance))
}

// NotificationsList prints the signed-in user's notifications.
func (r *Runner) NotificationsList(ctx context.Context, cmd *cli.Command) error {
	id, err := r.userID(ctx)
	if err != nil {
		return err
	}

	notifications := r.api.ListNotifications(ctx, id)
	if cmd.Bool("json") {
		return r.writeJSON(notifications, true)
	}
	if len(notifications) == 0 {
		return r.writePlain("No notifications\n")
	}
	return r.writeBytes(formatter.NotificationsToText(notifications))
}

// NotificationsRead marks a notification as read.
func (r *Runner) NotificationsRead(ctx context.Context, cmd *cli.Command) error {
	id := models.ID(strings.TrimSpace(cmd.StringArg("id")))
	if id == "" {
		return fmt.Errorf("%w: notification id", shared.ErrMissingArgument)
	}
	if err := r.api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Notification %s marked as read\n", id)
}
