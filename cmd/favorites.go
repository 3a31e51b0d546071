package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skillstream/internal/favorites"
	"github.com/desertthunder/skillstream/internal/formatter"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/notify"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the favorites of the session user.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	courses, err := r.catalog.Favourites(ctx)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	return formatter.Write(r.output, courses, format, "My favorites")
}

// FavoritesAdd adds a catalog course by code.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	code, err := intArg(cmd, "code")
	if err != nil {
		return err
	}
	courses, err := r.catalog.Courses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}
	course, err := findCourse(courses, code)
	if err != nil {
		return err
	}
	return r.toggle(ctx, favorites.Add, course)
}

// FavoritesRemove removes a favorite by code.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	code, err := intArg(cmd, "code")
	if err != nil {
		return err
	}
	course := models.Course{Code: code}
	if favs, err := r.catalog.Favourites(ctx); err == nil {
		if c, err := findCourse(favs, code); err == nil {
			course = c
		}
	}
	return r.toggle(ctx, favorites.Remove, course)
}

// toggle runs one favorite request through the workflow and prints its notice.
// Error notices become the command error; an informational duplicate does not.
func (r *Runner) toggle(ctx context.Context, op favorites.Op, course models.Course) error {
	wf := favorites.New(nil)
	wf.Authenticated = func() bool { return r.session.Current().Authenticated() }

	n, _ := wf.Run(ctx, r.catalog, op, course)
	r.logger.Debug("favorite request finished", "op", op, "code", course.Code, "notice", n.Text)

	switch n.Kind {
	case notify.Error:
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, n.Text)
	case notify.Success:
		return r.writePlain("✓ %s: %s\n", n.Text, course)
	default:
		return r.writePlain("• %s\n", n.Text)
	}
}
