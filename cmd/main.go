package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv(shared.EnvConfig)
	config := shared.DefaultConfig()
	if configPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			configPath = defaultConfigPath
		}
	}
	if configPath != "" {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv()
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	db := openSessionDatabase(config, logger)
	if db != nil {
		defer db.Close()
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
		DB:         db,
	})

	app := &cli.Command{
		Name:     "boxoffice",
		Usage:    "Browse movies and book cinema seats from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		if db != nil {
			db.Close()
		}
		logger.Fatalf("application error: %v", err)
	}
}

// openSessionDatabase opens the SQLite database when sessions are persisted there. On failure the session
// falls back to memory for this run.
func openSessionDatabase(config *shared.Config, logger *log.Logger) *sql.DB {
	if config.Session.Storage != shared.StorageSQLite {
		return nil
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Warn("session database unavailable, sign-in will not persist", "path", config.Database.Path, "error", err)
		return nil
	}
	return db
}
