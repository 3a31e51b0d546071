package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/desertthunder/skillstream/internal/repositories"
	"github.com/desertthunder/skillstream/internal/session"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(defaultConfigPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	if err := config.ApplyEnv(); err != nil {
		logger.Warn("failed to apply environment", "error", err)
	}
	if err := shared.SetLogLevel(logger, config.Log.Level); err != nil {
		logger.Warn("invalid log level", "level", config.Log.Level)
	}

	var storage session.Storage
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Warn("database unavailable, session will not persist", "path", config.Database.Path, "error", err)
	} else {
		defer db.Close()
		storage = repositories.NewPreferenceRepository(db)
	}

	store, err := session.NewStore(storage)
	if err != nil {
		logger.Warn("failed to restore session", "error", err)
		store, _ = session.NewStore(nil)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: defaultConfigPath,
		Session:    store,
		DB:         db,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "skillstream",
		Usage:    "Browse, favorite and manage SkillStream courses",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrCanceled):
			logger.Info("canceled")
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}

func timeoutOf(cfg *shared.Config) time.Duration {
	return time.Duration(cfg.API.TimeoutSeconds) * time.Second
}
