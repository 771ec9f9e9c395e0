package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/medium-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// newRootCommand builds the CLI. Running it without a subcommand serves HTTP.
func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "medium-api",
		Short: "Blogging API server",
		Long: `medium-api serves the blogging HTTP API: users, posts, drafts and likes.

Configuration comes from config.yaml, MEDIUM_* environment variables and the
DATABASE_URL, JWT_SECRET, PORT, LOG_LEVEL, APP_ENV and CORS_ALLOWED_ORIGINS
variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (default ./config.yaml)")

	root.AddCommand(newServeCommand(&configFile), newMigrateCommand(&configFile))
	return root
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configFile)
		},
	}
}

func newMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <" + strings.Join(postgres.MigrationCommands, "|") + ">",
		Short:     "Run database migrations",
		Long:      "Apply, roll back or inspect the embedded schema migrations.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), *configFile, args[0])
		},
	}
}

// runServe loads configuration and serves until SIGINT or SIGTERM.
func runServe(ctx context.Context, configFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadAppConfig(configFile)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}

// runMigrate runs one goose command against the configured database.
func runMigrate(ctx context.Context, configFile, command string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadAppConfig(configFile)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations need the postgres driver, got %q", cfg.Database.Driver)
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if err := postgres.Migrate(ctx, db.DB, command, logger); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
