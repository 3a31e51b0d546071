package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skillstream/internal/admin"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) adminWorkflow(yes bool) *admin.Workflow {
	var confirm admin.Confirmer = admin.ConfirmFunc(r.confirm)
	if yes {
		confirm = admin.AlwaysConfirm
	}
	return admin.NewWorkflow(r.catalog, confirm, shared.WithLogger(r.logger, "component", "admin"))
}

// requireAdmin applies the admin route check before any request is made.
func (r *Runner) requireAdmin() error {
	d := r.guard.Check(guard.Admin, r.session.Current().Token)
	switch d.Outcome {
	case guard.RedirectLogin:
		return fmt.Errorf("%w: run 'skillstream auth login' first", shared.ErrNotAuthenticated)
	case guard.Deny:
		return fmt.Errorf("%w: %s", shared.ErrForbidden, d.Notice.Text)
	}
	return nil
}

func formFromFlags(cmd *cli.Command) admin.Form {
	return admin.Form{
		Code:        cmd.String("code"),
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		Provider:    cmd.String("provider"),
		Image:       cmd.String("image"),
		Duration:    cmd.String("duration"),
		CourseURL:   cmd.String("url"),
		Tags:        cmd.String("tags"),
	}
}

// AdminList prints every course with the row id used by update and delete.
func (r *Runner) AdminList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	courses, err := r.adminWorkflow(false).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}

	r.writePlain("%-6s %-6s %-8s %s\n", "ID", "CODE", "HOURS", "TITLE")
	for _, c := range courses {
		r.writePlain("%-6d %-6d %-8s %s\n", c.ID, c.Code, shared.FormatHours(c.DurationHours), c.Title)
	}
	return nil
}

// AdminStats prints the dashboard totals.
func (r *Runner) AdminStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	courses, err := r.adminWorkflow(false).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}

	claims, _ := guard.DecodeClaims(r.session.Current().Token, r.config.Auth.JWTSecret)
	stats := admin.ComputeStats(courses)

	r.writePlainHeader("Admin dashboard")
	r.writePlain("Signed in as: %s\n", admin.ActiveUser(claims))
	r.writePlain("Courses:      %d\n", stats.Courses)
	r.writePlain("Unique tags:  %d\n", stats.UniqueTags)
	return r.writePlain("Total hours:  %d\n", stats.TotalHours)
}

// AdminCreate creates a course from flags.
func (r *Runner) AdminCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	c, err := r.adminWorkflow(false).Create(ctx, formFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return r.writePlain("✓ Created %s (id %d)\n", c, c.ID)
}

// AdminUpdate sends the flags that were given as a partial update.
func (r *Runner) AdminUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.adminWorkflow(false).Update(ctx, int64(id), formFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return r.writePlain("✓ Updated %s\n", c)
}

// AdminDelete deletes a course after confirmation.
func (r *Runner) AdminDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	wf := r.adminWorkflow(cmd.Bool("yes"))
	courses, err := wf.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}
	var target *models.Course
	for i := range courses {
		if courses[i].ID == int64(id) {
			target = &courses[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: no course with id %d", shared.ErrNotFound, id)
	}

	if err := wf.Delete(ctx, *target); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s\n", target)
}
