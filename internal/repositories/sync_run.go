package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/skillstream/internal/shared"
)

type SyncStatus string

const (
	SyncRunning   SyncStatus = "running"
	SyncSucceeded SyncStatus = "succeeded"
	SyncFailed    SyncStatus = "failed"
)

// SyncRun is one execution of the catalog sync.
type SyncRun struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  *time.Time
	CourseCount int
	Status      SyncStatus
	Error       string
}

// SyncRunRepository records catalog sync history.
type SyncRunRepository struct {
	db *sql.DB
}

func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Start records a running sync and returns it with a generated ID.
func (r *SyncRunRepository) Start() (*SyncRun, error) {
	run := &SyncRun{ID: shared.GenerateID(), StartedAt: time.Now().UTC(), Status: SyncRunning}
	_, err := r.db.Exec("INSERT INTO sync_runs (id, started_at, status) VALUES (?, ?, ?)",
		run.ID, run.StartedAt, run.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}
	return run, nil
}

// Finish marks run as succeeded, or failed when runErr is non-nil.
func (r *SyncRunRepository) Finish(run *SyncRun, count int, runErr error) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.CourseCount = count
	run.Status = SyncSucceeded
	run.Error = ""
	if runErr != nil {
		run.Status = SyncFailed
		run.Error = runErr.Error()
	}

	result, err := r.db.Exec(`
		UPDATE sync_runs SET finished_at = ?, course_count = ?, status = ?, error = ?
		WHERE id = ?
	`, now, count, run.Status, run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}
	return expectOne(result, fmt.Errorf("%w: sync run %s", shared.ErrNotFound, run.ID))
}

// Recent returns up to limit runs, newest first.
func (r *SyncRunRepository) Recent(limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`
		SELECT id, started_at, finished_at, course_count, status, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var (
			run      SyncRun
			finished sql.NullTime
			status   string
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &run.CourseCount, &status, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		run.Status = SyncStatus(status)
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
