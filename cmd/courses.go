package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/skillstream/internal/catalog"
	"github.com/desertthunder/skillstream/internal/formatter"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/urfave/cli/v3"
)

// courses loads the catalog from the API, or from the cache when offline.
func (r *Runner) courses(ctx context.Context, offline bool) ([]models.Course, error) {
	if !offline {
		return r.catalog.Courses(ctx)
	}
	if r.cache == nil {
		return nil, fmt.Errorf("%w: course cache not initialized", shared.ErrServiceUnavailable)
	}
	courses, err := r.cache.List()
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		r.logger.Warn("course cache is empty, run 'skillstream cache sync'")
	}
	return courses, nil
}

// CoursesList prints the catalog through the filter engine.
func (r *Runner) CoursesList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	sortKey, err := catalog.ParseSortKey(cmd.String("sort"))
	if err != nil {
		return err
	}

	filter := catalog.NewFilterState()
	filter.Query = cmd.String("query")
	filter.Sort = sortKey
	if tag := strings.TrimSpace(cmd.String("tag")); tag != "" {
		filter.ActiveTag = tag
	}

	courses, err := r.courses(ctx, cmd.Bool("offline"))
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}

	visible := catalog.ComputeVisible(courses, filter)
	r.logger.Debug("filtered catalog", "total", len(courses), "visible", len(visible))
	return formatter.Write(r.output, visible, format, "Courses")
}

// CoursesSearch runs the server side search.
func (r *Runner) CoursesSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query is required", shared.ErrMissingArgument)
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	courses, err := r.catalog.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return formatter.Write(r.output, courses, format, fmt.Sprintf("Results for %q", query))
}

// CoursesTags prints the quick-filter tag vocabulary.
func (r *Runner) CoursesTags(ctx context.Context, cmd *cli.Command) error {
	courses, err := r.courses(ctx, cmd.Bool("offline"))
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}
	for _, tag := range catalog.TagVocabulary(courses) {
		if err := r.writePlain("%s\n", tag); err != nil {
			return err
		}
	}
	return nil
}

// CoursesOpen opens the course link, or a search for its title when it has none.
func (r *Runner) CoursesOpen(ctx context.Context, cmd *cli.Command) error {
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

	link := shared.CourseLink(course.CourseURL, course.Title)
	r.logger.Info("opening course", "code", code, "url", link)
	if err := r.open(link); err != nil {
		return fmt.Errorf("failed to open %s: %w", link, err)
	}
	return r.writePlain("✓ Opened %s\n", link)
}
