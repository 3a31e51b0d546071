package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/skillstream/internal/server"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/urfave/cli/v3"
)

// DevServe runs the fixture-backed catalog API until interrupted.
func (r *Runner) DevServe(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	fixtures, err := server.LoadFixtures(cmd.String("fixtures"))
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Config:   cfg,
		Fixtures: fixtures,
		Logger:   shared.WithLogger(r.logger, "component", "server"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("Serving SkillStream API on http://%s%s\n", cfg.Addr(), server.APIPrefix)
	return srv.ListenAndServe(ctx)
}
