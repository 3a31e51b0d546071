package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/skillstream/internal/formatter"
	"github.com/desertthunder/skillstream/internal/shared"
	tu "github.com/desertthunder/skillstream/internal/testing"
)

func TestBulkExport(t *testing.T) {
	tests := []struct {
		name        string
		format      formatter.Format
		collections []Collection
		admin       bool
		wantSuccess int
		wantFailed  int
		wantFiles   []string
	}{
		{
			name:        "default catalog json",
			wantSuccess: 1,
			wantFiles:   []string{"catalog.json"},
		},
		{
			name:        "all collections csv as admin",
			format:      formatter.CSV,
			collections: Collections,
			admin:       true,
			wantSuccess: 3,
			wantFiles:   []string{"catalog.csv", "favorites.csv", "admin.csv"},
		},
		{
			name:        "admin collection forbidden",
			format:      formatter.Markdown,
			collections: []Collection{CatalogCollection, AdminCollection},
			wantSuccess: 1,
			wantFailed:  1,
			wantFiles:   []string{"catalog.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fake := tu.NewFakeCatalog(tu.Courses())
			fake.Admin = tt.admin
			engine := NewCatalogEngine(fake, nil, nil, nil, nil)

			progress := make(chan ProgressUpdate, 20)
			wait := collect(progress)
			result, err := engine.BulkExport(context.Background(), progress, BulkExportOpts{
				Collections: tt.collections,
				Format:      tt.format,
				OutputDir:   dir,
				RateLimit:   100,
			})
			updates := wait()

			if err != nil {
				t.Fatalf("BulkExport() error = %v", err)
			}
			if result.SuccessfulExports != tt.wantSuccess || result.FailedExports != tt.wantFailed {
				t.Errorf("got %d/%d, want %d/%d", result.SuccessfulExports, result.FailedExports, tt.wantSuccess, tt.wantFailed)
			}
			for _, name := range tt.wantFiles {
				tu.AssertFileExists(t, filepath.Join(dir, name))
			}
			if len(updates) == 0 {
				t.Error("expected progress updates")
			}

			manifest := tu.MustReadFile(t, result.ManifestPath)
			var decoded BulkExportResult
			if err := json.Unmarshal([]byte(manifest), &decoded); err != nil {
				t.Fatalf("invalid manifest: %v", err)
			}
			if decoded.TotalCollections != len(result.Results) || decoded.SuccessfulExports != tt.wantSuccess {
				t.Errorf("unexpected manifest %s", manifest)
			}
		})
	}
}

func TestBulkExport_ResultOrderAndErrors(t *testing.T) {
	fake := tu.NewFakeCatalog(tu.Courses())
	engine := NewCatalogEngine(fake, nil, nil, nil, nil)

	result, err := engine.BulkExport(context.Background(), nil, BulkExportOpts{
		Collections: []Collection{AdminCollection, CatalogCollection},
		OutputDir:   t.TempDir(),
		NumWorkers:  50,
		RateLimit:   100,
	})
	if err != nil {
		t.Fatalf("BulkExport() error = %v", err)
	}

	if result.Results[0].Collection != AdminCollection || result.Results[1].Collection != CatalogCollection {
		t.Errorf("results should follow requested order, got %+v", result.Results)
	}
	admin := result.Results[0]
	if admin.Success || !errors.Is(admin.Error, shared.ErrForbidden) || !strings.Contains(admin.ErrorMessage, "admin") {
		t.Errorf("unexpected admin result %+v", admin)
	}
	if catalog := result.Results[1]; !catalog.Success || catalog.Count != 5 {
		t.Errorf("unexpected catalog result %+v", catalog)
	}
}

func TestBulkExport_ContextCancellation(t *testing.T) {
	engine := NewCatalogEngine(tu.NewFakeCatalog(tu.Courses()), nil, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.BulkExport(ctx, nil, BulkExportOpts{OutputDir: t.TempDir(), RateLimit: 10})
	if !errors.Is(err, shared.ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
	if result == nil {
		t.Fatal("result should not be nil")
	}
	if result.ManifestPath != "" {
		t.Error("no manifest should be written for an interrupted export")
	}
}

func TestBulkExport_Errors(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		_, err := NewCatalogEngine(nil, nil, nil, nil, nil).BulkExport(context.Background(), nil, BulkExportOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("invalid output directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		engine := NewCatalogEngine(tu.NewFakeCatalog(tu.Courses()), nil, nil, nil, nil)
		if _, err := engine.BulkExport(context.Background(), nil, BulkExportOpts{OutputDir: filepath.Join(file, "sub")}); err == nil {
			t.Error("expected error for output directory under a file")
		}
	})
}

func TestParseCollection(t *testing.T) {
	if c, err := ParseCollection(" Favorites "); err != nil || c != FavoritesCollection {
		t.Errorf("unexpected %v, %v", c, err)
	}
	if _, err := ParseCollection("history"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
