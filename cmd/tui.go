package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/desertthunder/boxoffice/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and booking.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: booking engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.File
	if logPath == "" {
		logPath = "./tmp/boxoffice-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.Deps{
		Backend:  r.api,
		Auth:     r.auth,
		Checkout: r.engine,
		Guard:    r.guard,
		Session:  r.store,
		TMDB:     r.tmdb,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
