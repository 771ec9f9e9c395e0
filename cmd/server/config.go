package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/medium-api/internal/config"
	"github.com/phrazzld/medium-api/internal/platform/logger"
)

// loadAppConfig loads the application configuration, from configFile when
// one is given.
func loadAppConfig(configFile string) (*config.Config, error) {
	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures the default logger from cfg and logs the
// non-secret parts of the configuration.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("environment", cfg.Server.Environment),
		slog.String("database_driver", cfg.Database.Driver))
	l.Debug("auth configuration",
		slog.Bool("jwt_secret_present", cfg.Auth.JWTSecret != ""),
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	return l, nil
}
