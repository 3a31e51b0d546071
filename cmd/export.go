package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skillstream/internal/formatter"
	"github.com/desertthunder/skillstream/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the selected collections to an output directory with a manifest.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var collections []tasks.Collection
	for _, name := range cmd.StringSlice("collection") {
		c, err := tasks.ParseCollection(name)
		if err != nil {
			return err
		}
		collections = append(collections, c)
	}

	progress := make(chan tasks.ProgressUpdate, 10)
	done := r.watch(progress)

	result, err := r.engine.BulkExport(ctx, progress, tasks.BulkExportOpts{
		Collections: collections,
		Format:      format,
		OutputDir:   cmd.String("output"),
		NumWorkers:  cmd.Int("workers"),
		RateLimit:   r.config.API.RequestsPerSecond,
	})
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d of %d collections to %s", result.SuccessfulExports, result.TotalCollections, result.OutputDirectory)
	for _, res := range result.Results {
		if res.Success {
			r.writePlain("  ✓ %-10s %4d courses  %s\n", res.Collection, res.Count, res.File)
		} else {
			r.writePlain("  ✗ %-10s %s\n", res.Collection, res.ErrorMessage)
		}
	}
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}
