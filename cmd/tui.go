package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/desertthunder/skillstream/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/skillstream-tui.log"

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.SetLogLevel(fileLogger, r.config.Log.Level); err != nil {
		fileLogger.Warn("invalid log level", "level", r.config.Log.Level)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.Deps{
		Catalog: r.catalog,
		Session: r.session,
		Guard:   r.guard,
		Logger:  fileLogger,
		Open:    r.open,
		Theme:   r.config.UI.Theme,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
