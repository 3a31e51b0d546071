package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
)

// CourseCacheRepository keeps the last synced catalog snapshot.
type CourseCacheRepository struct {
	db *sql.DB
}

func NewCourseCacheRepository(db *sql.DB) *CourseCacheRepository {
	return &CourseCacheRepository{db: db}
}

// ReplaceAll swaps the snapshot for courses in one transaction. Position records input order;
// a repeated code keeps its first occurrence.
func (r *CourseCacheRepository) ReplaceAll(courses []models.Course, syncedAt time.Time) (int, error) {
	stored := 0
	err := withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM course_cache"); err != nil {
			return fmt.Errorf("failed to clear course cache: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT OR IGNORE INTO course_cache
				(code, position, remote_id, title, description, provider, instructor, image_url, course_url, duration_hours, tags, synced_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range courses {
			var duration sql.NullInt64
			if c.DurationHours != nil {
				duration = sql.NullInt64{Int64: int64(*c.DurationHours), Valid: true}
			}
			res, err := stmt.Exec(c.Code, i, c.ID, c.Title, c.Description, c.Provider, c.Instructor,
				c.ImageURL, c.CourseURL, duration, shared.JoinTags(c.Tags), syncedAt.UTC())
			if err != nil {
				return fmt.Errorf("failed to cache course %d: %w", c.Code, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				stored++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// List returns the snapshot in upstream order.
func (r *CourseCacheRepository) List() ([]models.Course, error) {
	rows, err := r.db.Query(`
		SELECT code, remote_id, title, description, provider, instructor, image_url, course_url, duration_hours, tags
		FROM course_cache
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query course cache: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var (
			c        models.Course
			duration sql.NullInt64
			tags     string
		)
		if err := rows.Scan(&c.Code, &c.ID, &c.Title, &c.Description, &c.Provider, &c.Instructor,
			&c.ImageURL, &c.CourseURL, &duration, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan cached course: %w", err)
		}
		if duration.Valid {
			h := int(duration.Int64)
			c.DurationHours = &h
		}
		c.Tags = shared.SplitTags(tags)
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Get returns the cached course with code.
func (r *CourseCacheRepository) Get(code int) (*models.Course, error) {
	courses, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: course %d is not cached", shared.ErrNotFound, code)
}

func (r *CourseCacheRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM course_cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count course cache: %w", err)
	}
	return n, nil
}

// SyncedAt returns when the snapshot was written, or the zero time for an empty cache.
func (r *CourseCacheRepository) SyncedAt() (time.Time, error) {
	var at time.Time
	err := r.db.QueryRow("SELECT synced_at FROM course_cache ORDER BY position LIMIT 1").Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read sync time: %w", err)
	}
	return at, nil
}
