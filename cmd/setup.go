package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/urfave/cli/v3"
)

// loadConfig reads path, creating it from the embedded template when it does not exist.
func (r *Runner) loadConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			return shared.DefaultConfig()
		}
		r.logger.Info("config file created", "path", path)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	return config
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	}

	statuses, err := shared.Migrations(db)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	r.writePlainHeader("Migrations")
	for _, m := range statuses {
		if m.Applied {
			r.writePlain("✓ %04d %s (%s)\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04"))
		} else {
			r.writePlain("• %04d %s (pending)\n", m.Version, m.Name)
		}
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupConfig writes the config file, applying any values given as flags.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	config := r.loadConfig(path)

	if url := cmd.String("api-url"); url != "" {
		config.API.BaseURL = url
	}
	if theme := cmd.String("theme"); theme != "" {
		config.UI.Theme = theme
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if err := shared.SaveConfig(path, config); err != nil {
		return err
	}
	r.config = config

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("API: %s\n", config.API.BaseURL)
	return r.writePlain("Database: %s\n", config.Database.Path)
}
