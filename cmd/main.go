package main

import (
	"context"
	"os"

	"github.com/desertthunder/vox/internal/repositories"
	"github.com/desertthunder/vox/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Store:      repositories.NewKVRepository(db),
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "vox",
		Usage:    "Record and play back voice memos from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
		Action:   runner.TUI,
	}

	err = app.Run(context.Background(), os.Args)
	db.Close()

	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
