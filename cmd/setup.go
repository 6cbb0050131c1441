package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupCatalog writes the seed festival catalog to the configured path.
func (r *Runner) SetupCatalog(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	force := cmd.Bool("force")

	if _, err := os.Stat(config.Catalog.Path); err == nil {
		if !force {
			return fmt.Errorf("%w: catalog already exists at %s (use --force to overwrite)",
				shared.ErrDuplicate, config.Catalog.Path)
		}
		if err := os.Remove(config.Catalog.Path); err != nil {
			return fmt.Errorf("failed to remove existing catalog: %w", err)
		}
	}

	if err := catalog.WriteSeed(config.Catalog.Path); err != nil {
		return fmt.Errorf("failed to write seed catalog: %w", err)
	}

	festivals, err := catalog.NewStore(config.Catalog.Path).Load()
	if err != nil {
		return fmt.Errorf("failed to read back catalog: %w", err)
	}

	r.logger.Info("seed catalog written", "path", config.Catalog.Path, "festivals", len(festivals))
	r.writePlain("✓ Seed catalog written to %s (%d festivals)\n", config.Catalog.Path, len(festivals))
	return nil
}
