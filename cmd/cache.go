package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/desertthunder/skillstream/internal/tasks"
	"github.com/urfave/cli/v3"
)

// watch prints progress updates until the channel is closed. The returned channel is closed
// once every update has been printed.
func (r *Runner) watch(progress <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			if u.Total > 0 {
				r.writePlain("[%d/%d] %s\n", u.Step, u.Total, u.Message)
			} else {
				r.writePlain("%s\n", u.Message)
			}
		}
	}()
	return done
}

// CacheSync replaces the local cache with the live catalog.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	progress := make(chan tasks.ProgressUpdate, 10)
	done := r.watch(progress)

	result, err := r.engine.Sync(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlain("\n✓ Cached %d of %d courses at %s\n", result.Stored, result.Fetched, result.SyncedAt.Format("2006-01-02 15:04:05"))
	if result.Run != nil {
		r.writePlain("Run: %s\n", result.Run.ID)
	}
	return nil
}

// CacheShow prints the cache summary and recent syncs.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: course cache not initialized", shared.ErrServiceUnavailable)
	}

	count, err := r.cache.Count()
	if err != nil {
		return err
	}
	r.writePlainHeader("Course cache")
	r.writePlain("Courses: %d\n", count)
	if count > 0 {
		syncedAt, err := r.cache.SyncedAt()
		if err != nil {
			return err
		}
		r.writePlain("Synced:  %s\n", syncedAt.Local().Format("2006-01-02 15:04:05"))
	}

	runs, err := r.runs.Recent(cmd.Int("runs"))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	r.writePlainln("Recent syncs:")
	for _, run := range runs {
		line := fmt.Sprintf("%s  %-9s %4d courses", run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Status, run.CourseCount)
		if run.Error != "" {
			line += "  " + run.Error
		}
		r.writePlain("%s\n", line)
	}
	return nil
}
