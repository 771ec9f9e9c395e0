package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/medium-api/internal/config"
	"github.com/phrazzld/medium-api/internal/platform/postgres"
)

// setupAppDatabase opens the connection pool.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*postgres.DB, error) {
	db, err := postgres.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// migrateOnStartup applies pending migrations when auto_migrate is set.
func migrateOnStartup(ctx context.Context, cfg *config.Config, db *postgres.DB, logger *slog.Logger) error {
	if !cfg.Database.AutoMigrate {
		return nil
	}
	logger.Info("applying pending migrations")
	if err := postgres.Migrate(ctx, db.DB, "up", logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
