package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/desertthunder/vox/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing,
// opens the database and applies pending migrations. With --rollback it
// reverts the latest migration instead.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		return fmt.Errorf("%w: --config must not be empty", shared.ErrMissingArgument)
	}

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			return err
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		if config, err = shared.LoadConfig(configPath); err != nil {
			return err
		}
		r.writePlain("✓ Created %s\n", configPath)
	}

	if path := cmd.String("database"); path != "" {
		config.Database.Path = path
	}

	if cmd.Bool("rollback") {
		return r.rollback(ctx, config)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	applied, err := shared.AppliedVersions(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", shared.ExpandPath(config.Database.Path))
	return r.writePlainln("Applied migrations: %v", sortedVersions(applied))
}

// rollback reverts the most recent migration. Any later command re-applies it.
func (r *Runner) rollback(ctx context.Context, config *shared.Config) error {
	db, err := shared.NewDatabase(shared.ExpandPath(config.Database.Path))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}

	applied, err := shared.AppliedVersions(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Info("rolled back latest migration", "path", config.Database.Path)
	return r.writePlain("✓ Rolled back; applied migrations: %v\n", sortedVersions(applied))
}

func sortedVersions(applied map[int]bool) []int {
	versions := make([]int, 0, len(applied))
	for v := range applied {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}
