// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
)

// Courses returns the fixture catalog used across package tests. Each call returns fresh copies.
func Courses() []models.Course {
	hours := func(h int) *int { return &h }
	return []models.Course{
		{ID: 1, Code: 1, Title: "Intro to Go", Description: "Learn the basics of Go", Provider: "Gopher Academy", Instructor: "Gopher Academy", DurationHours: hours(10), Tags: []string{"go", "backend"}},
		{ID: 2, Code: 2, Title: "Advanced Rust", Description: "Ownership in depth", Provider: "Ferris Labs", Instructor: "Ferris Labs", DurationHours: hours(20), Tags: []string{"rust", "systems"}},
		{ID: 3, Code: 3, Title: "web development", Description: "HTML, CSS and JavaScript", Provider: "Acme", Instructor: "Acme", Tags: []string{"frontend", "javascript"}},
		{ID: 4, Code: 4, Title: "Go Concurrency", Description: "Channels and goroutines", Provider: "Gopher Academy", Instructor: "Gopher Academy", DurationHours: hours(6), Tags: []string{"go", "concurrency"}},
		{ID: 5, Code: 5, Title: "Databases", Description: "SQL fundamentals", Provider: "Data Co", Instructor: "Data Co", DurationHours: hours(8), Tags: []string{}},
	}
}

// FakeCatalog is an in-memory double for the course, favorites and admin API surfaces.
// Set the Err fields to force failures; Calls counts requests by method name.
type FakeCatalog struct {
	mu        sync.Mutex
	courses   []models.Course
	favorites *models.FavoriteSet
	nextID    int64

	Authenticated bool
	Admin         bool
	Err           error
	Calls         map[string]int
	// Block, when non-nil, is received from before a favorites call returns.
	Block chan struct{}
}

func NewFakeCatalog(courses []models.Course) *FakeCatalog {
	var maxID int64
	for _, c := range courses {
		maxID = max(maxID, c.ID)
	}
	return &FakeCatalog{
		courses:       courses,
		favorites:     models.NewFavoriteSet(nil),
		nextID:        maxID + 1,
		Authenticated: true,
		Calls:         map[string]int{},
	}
}

func (f *FakeCatalog) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[name]++
	return f.Err
}

func (f *FakeCatalog) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *FakeCatalog) Courses(ctx context.Context) ([]models.Course, error) {
	if err := f.record("Courses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneAll(f.courses), nil
}

func (f *FakeCatalog) Search(ctx context.Context, query string) ([]models.Course, error) {
	if err := f.record("Search"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneAll(f.courses), nil
}

func (f *FakeCatalog) Favourites(ctx context.Context) ([]models.Course, error) {
	if err := f.record("Favourites"); err != nil {
		return nil, err
	}
	if !f.Authenticated {
		return nil, shared.ErrNotAuthenticated
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.favorites.Courses(), nil
}

func (f *FakeCatalog) AddFavourite(ctx context.Context, course models.Course) error {
	if err := f.record("AddFavourite"); err != nil {
		return err
	}
	f.wait(ctx)
	if !f.Authenticated {
		return shared.ErrNotAuthenticated
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.favorites.Add(course) {
		return shared.ErrConflict
	}
	return nil
}

func (f *FakeCatalog) RemoveFavourite(ctx context.Context, code int) error {
	if err := f.record("RemoveFavourite"); err != nil {
		return err
	}
	f.wait(ctx)
	if !f.Authenticated {
		return shared.ErrNotAuthenticated
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.favorites.Remove(code) {
		return shared.ErrNotFound
	}
	return nil
}

func (f *FakeCatalog) AdminCourses(ctx context.Context) ([]models.Course, error) {
	if err := f.adminCall("AdminCourses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneAll(f.courses), nil
}

func (f *FakeCatalog) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	if err := f.adminCall("CreateCourse"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.courses {
		if c.Code == in.Code {
			return nil, shared.ErrConflict
		}
	}
	c := in.Course()
	c.ID = f.nextID
	f.nextID++
	f.courses = append(f.courses, c)
	out := c.Clone()
	return &out, nil
}

func (f *FakeCatalog) UpdateCourse(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	if err := f.adminCall("UpdateCourse"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.courses {
		if c.ID == id {
			f.courses[i] = patch.Apply(c)
			out := f.courses[i].Clone()
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *FakeCatalog) DeleteCourse(ctx context.Context, id int64) error {
	if err := f.adminCall("DeleteCourse"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.courses {
		if c.ID == id {
			f.courses = append(f.courses[:i], f.courses[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *FakeCatalog) adminCall(name string) error {
	if err := f.record(name); err != nil {
		return err
	}
	if !f.Authenticated {
		return shared.ErrNotAuthenticated
	}
	if !f.Admin {
		return shared.ErrForbidden
	}
	return nil
}

func (f *FakeCatalog) wait(ctx context.Context) {
	if f.Block == nil {
		return
	}
	select {
	case <-f.Block:
	case <-ctx.Done():
	}
}

func cloneAll(courses []models.Course) []models.Course {
	out := make([]models.Course, len(courses))
	for i, c := range courses {
		out[i] = c.Clone()
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
