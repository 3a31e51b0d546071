package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
)

// Theme prints the theme, or stores the one given.
func (r *Runner) Theme(ctx context.Context, cmd *cli.Command) error {
	theme := strings.ToLower(strings.TrimSpace(cmd.StringArg("theme")))
	if theme == "" {
		return r.writePlain("%s\n", r.session.Theme(r.config.UI.Theme))
	}
	if err := r.session.SetTheme(theme); err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", theme)
}
