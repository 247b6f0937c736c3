package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) configFile() string {
	if r.configPath != "" {
		return r.configPath
	}
	return defaultConfigPath
}

// SetupConfig writes the config template unless a file already exists.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configFile()
	if _, err := os.Stat(path); err == nil {
		return r.writePlain("Config already exists at %s\n", path)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url to your booking backend\n")
	r.writePlain("2. Optionally set tmdb.api_key and oauth.google_client_id\n")
	return r.writePlain("3. Run 'boxoffice setup database' to create the session store\n")
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.configFile()

	config := r.config
	if _, err := os.Stat(path); err != nil {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using current settings", "error", err)
		} else {
			r.logger.Info("config file created", "path", path)
			if loaded, err := shared.LoadConfig(path); err == nil {
				loaded.ApplyEnv()
				config = loaded
			} else {
				r.logger.Warn("failed to load created config, using current settings", "error", err)
			}
		}
	}

	r.logger.Info("initializing database and running migrations", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready at %s (schema version %d)\n", config.Database.Path, version)
}

// SetupRollback reverts the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	return r.writePlain("✓ Rolled back, schema version is now %d\n", version)
}
