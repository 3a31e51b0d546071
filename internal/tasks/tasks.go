package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/repositories"
	"github.com/desertthunder/skillstream/internal/services"
	"github.com/desertthunder/skillstream/internal/shared"
)

// Engine defines the long-running catalog operations.
type Engine interface {
	// Sync fetches the catalog and replaces the local cache with it.
	Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error)

	// Dump fetches the raw JSON of every list endpoint.
	Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error)

	// BulkExport writes each requested collection to a file in OutputDir.
	BulkExport(ctx context.Context, progress chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error)
}

// Source is the part of the API the engine reads course lists from.
type Source interface {
	Courses(ctx context.Context) ([]models.Course, error)
	Favourites(ctx context.Context) ([]models.Course, error)
	AdminCourses(ctx context.Context) ([]models.Course, error)
}

// APIClient performs raw requests for [CatalogEngine.Dump].
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// CourseCache stores the last synced catalog (repositories.CourseCacheRepository).
type CourseCache interface {
	ReplaceAll(courses []models.Course, syncedAt time.Time) (int, error)
}

// SyncRecorder records sync history (repositories.SyncRunRepository).
type SyncRecorder interface {
	Start() (*repositories.SyncRun, error)
	Finish(run *repositories.SyncRun, count int, runErr error) error
}

// SyncResult summarizes one catalog sync.
type SyncResult struct {
	Run      *repositories.SyncRun
	Fetched  int
	Stored   int
	SyncedAt time.Time
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Status   int
	Error    error
}

// DumpResult contains the decoded JSON of each endpoint. Failed endpoints are left nil and listed in Errors.
type DumpResult struct {
	Courses    any
	Favourites any
	Admin      any
	Errors     []EndpointResult
}

type DumpData struct {
	Courses    any      `json:"courses"`
	Favourites any      `json:"favourites,omitempty"`
	Admin      any      `json:"admin_courses,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// Data flattens r for JSON output.
func (r *DumpResult) Data() DumpData {
	data := DumpData{Courses: r.Courses, Favourites: r.Favourites, Admin: r.Admin}
	for _, e := range r.Errors {
		data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", e.Endpoint, e.Error))
	}
	return data
}

type endpointOperation struct {
	path    string
	target  *any
	phase   Phase
	message string
}

// CatalogEngine implements [Engine].
type CatalogEngine struct {
	source Source
	api    APIClient
	cache  CourseCache
	runs   SyncRecorder
	logger *log.Logger
}

// NewCatalogEngine creates an engine. Any dependency may be nil; operations needing it fail with
// [shared.ErrServiceUnavailable]. A nil runs skips sync history.
func NewCatalogEngine(source Source, api APIClient, cache CourseCache, runs SyncRecorder, logger *log.Logger) *CatalogEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CatalogEngine{source: source, api: api, cache: cache, runs: runs, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Sync fetches the catalog in upstream order and replaces the cache with it.
func (e *CatalogEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: course source not initialized", shared.ErrServiceUnavailable)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: course cache not initialized", shared.ErrServiceUnavailable)
	}

	result := &SyncResult{}
	if e.runs != nil {
		run, err := e.runs.Start()
		if err != nil {
			return nil, err
		}
		result.Run = run
	}

	e.sendProgress(progress, fetchCoursesUpdate(1, 2))
	courses, err := e.source.Courses(ctx)
	if err != nil {
		err = fmt.Errorf("failed to fetch courses: %w", err)
		e.finish(result, 0, err)
		return result, err
	}
	result.Fetched = len(courses)

	e.sendProgress(progress, storeCoursesUpdate(2, 2, len(courses)))
	result.SyncedAt = time.Now().UTC()
	stored, err := e.cache.ReplaceAll(courses, result.SyncedAt)
	if err != nil {
		e.finish(result, 0, err)
		return result, err
	}
	result.Stored = stored

	e.finish(result, stored, nil)
	e.sendProgress(progress, syncCompletedUpdate(result))
	return result, nil
}

func (e *CatalogEngine) finish(result *SyncResult, count int, runErr error) {
	if result.Run == nil {
		return
	}
	if err := e.runs.Finish(result.Run, count, runErr); err != nil {
		e.logger.Warn("failed to record sync run", "id", result.Run.ID, "error", err)
	}
}

// Dump fetches every list endpoint. Endpoint failures are collected, not returned.
func (e *CatalogEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{Errors: []EndpointResult{}}

	endpoints := []endpointOperation{
		{path: "/courses", target: &result.Courses, phase: FetchCourses, message: "Fetching courses..."},
		{path: "/favourites", target: &result.Favourites, phase: FetchFavourites, message: "Fetching favourites..."},
		{path: "/admin/courses", target: &result.Admin, phase: FetchAdmin, message: "Fetching admin courses..."},
	}

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, len(endpoints)))

		resp, err := e.api.Get(ctx, endpoint.path)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.path, Error: err})
		case !resp.OK():
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Status:   resp.StatusCode,
				Error:    resp.Err("GET", endpoint.path),
			})
		default:
			*endpoint.target = resp.JSONData
		}
	}

	return result, nil
}
