package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/skillstream/internal/formatter"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	"golang.org/x/time/rate"
)

// Collection names a course list that can be exported.
type Collection string

const (
	CatalogCollection   Collection = "catalog"
	FavoritesCollection Collection = "favorites"
	AdminCollection     Collection = "admin"
)

var Collections = []Collection{CatalogCollection, FavoritesCollection, AdminCollection}

func ParseCollection(s string) (Collection, error) {
	c := Collection(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Collections, c) {
		return "", fmt.Errorf("%w: unknown collection %q", shared.ErrInvalidArgument, s)
	}
	return c, nil
}

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	Collections []Collection     // Lists to export (default: catalog)
	Format      formatter.Format // Output format (default: json)
	OutputDir   string           // Output directory (default: skillstream_export_{epoch})
	NumWorkers  int              // Concurrent writers (default: 3, max: 10)
	RateLimit   float64          // Fetches per second (default: 5)
}

// CollectionExportResult is the outcome for a single collection.
type CollectionExportResult struct {
	Collection   Collection `json:"collection"`
	Count        int        `json:"count"`
	File         string     `json:"file,omitempty"`
	Success      bool       `json:"success"`
	Error        error      `json:"-"`
	ErrorMessage string     `json:"error,omitempty"`
}

// BulkExportResult is written to the manifest in the output directory.
type BulkExportResult struct {
	Format            formatter.Format         `json:"format"`
	OutputDirectory   string                   `json:"output_directory"`
	ManifestPath      string                   `json:"-"`
	TotalCollections  int                      `json:"total_collections"`
	SuccessfulExports int                      `json:"successful_exports"`
	FailedExports     int                      `json:"failed_exports"`
	ExportedAt        time.Time                `json:"exported_at"`
	Results           []CollectionExportResult `json:"results"`
}

type collectionJob struct {
	collection Collection
	courses    []models.Course
}

// BulkExport fetches each collection under a rate limit and writes them with a worker pool.
// A failed collection is recorded in the result and does not stop the others.
func (e *CatalogEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: course source not initialized", shared.ErrServiceUnavailable)
	}

	if len(opts.Collections) == 0 {
		opts.Collections = []Collection{CatalogCollection}
	}
	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("skillstream_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(opts.Collections)
	result := &BulkExportResult{
		Format:           opts.Format,
		OutputDirectory:  opts.OutputDir,
		TotalCollections: total,
		ExportedAt:       time.Now().UTC(),
		Results:          make([]CollectionExportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan collectionJob, total)
	results := make(chan CollectionExportResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, c := range opts.Collections {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			courses, err := e.fetch(ctx, c)
			if err != nil {
				results <- CollectionExportResult{
					Collection: c,
					Error:      fmt.Errorf("failed to fetch %s: %w", c, err),
				}
				continue
			}

			e.sendProgress(prog, exportingCollectionUpdate(i+1, total, c, len(courses)))
			jobs <- collectionJob{collection: c, courses: courses}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.ErrorMessage = res.Error.Error()
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, total, res))
		} else {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, total, res))
		}
		result.Results = append(result.Results, res)
	}

	slices.SortFunc(result.Results, func(a, b CollectionExportResult) int {
		return slices.Index(opts.Collections, a.Collection) - slices.Index(opts.Collections, b.Collection)
	})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("%w: export interrupted: %w", shared.ErrCanceled, err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (e *CatalogEngine) fetch(ctx context.Context, c Collection) ([]models.Course, error) {
	switch c {
	case CatalogCollection:
		return e.source.Courses(ctx)
	case FavoritesCollection:
		return e.source.Favourites(ctx)
	case AdminCollection:
		return e.source.AdminCourses(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown collection %q", shared.ErrInvalidArgument, c)
	}
}

// exportWorker writes collections from the jobs channel until it closes.
func (e *CatalogEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan collectionJob,
	results chan<- CollectionExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := CollectionExportResult{Collection: job.collection, Count: len(job.courses)}
		if err := ctx.Err(); err != nil {
			res.Error = err
			results <- res
			continue
		}

		path, err := formatter.WriteExport(job.courses, opts.Format, opts.OutputDir, string(job.collection))
		if err != nil {
			res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		} else {
			res.File = path
			res.Success = true
		}
		results <- res
	}
}
