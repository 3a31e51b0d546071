package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/desertthunder/skillstream/internal/tasks"
	"github.com/urfave/cli/v3"
)

const dumpFile = "api_dump.json"

// APIGet makes a direct GET request under the API base URL.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("path"))
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	pretty := cmd.Bool("pretty")

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return resp.Err("GET", path)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}
	return r.writePlain("%s\n", resp.Body)
}

// APIDump fetches every list endpoint and prints them as one document.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Info("dumping API state")

	progress := make(chan tasks.ProgressUpdate, 10)
	done := r.watch(progress)
	result, err := r.engine.Dump(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		r.logger.Warn("endpoint failed", "endpoint", e.Endpoint, "status", e.Status, "error", e.Error)
	}
	dump := result.Data()

	if save {
		data, err := shared.MarshalJSON(dump, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(dumpFile, data, 0644); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", dumpFile)
		}
	}

	return r.writeJSON(dump, pretty)
}
