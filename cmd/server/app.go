package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/medium-api/internal/api"
	"github.com/phrazzld/medium-api/internal/config"
	"github.com/phrazzld/medium-api/internal/platform/memstore"
	"github.com/phrazzld/medium-api/internal/platform/postgres"
	"github.com/phrazzld/medium-api/internal/service"
	"github.com/phrazzld/medium-api/internal/service/auth"
	"github.com/phrazzld/medium-api/internal/store"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *postgres.DB // nil with the memory driver

	userStore store.UserStore
	blogStore store.BlogStore
	likeStore store.LikeStore

	jwtService  auth.JWTService
	userService service.UserService
	blogService service.BlogService
	likeService service.LikeService
}

// newApplication connects the configured store and builds the services on
// top of it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStores(ctx); err != nil {
		return nil, err
	}

	if err := app.setupServices(); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case "memory":
		mem := memstore.New()
		app.userStore = mem.Users()
		app.blogStore = mem.Blogs()
		app.likeStore = mem.Likes()
		app.logger.Warn("using the in-memory store; data is lost on exit")
		return nil

	case "postgres":
		db, err := setupAppDatabase(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		if err := migrateOnStartup(ctx, app.config, db, app.logger); err != nil {
			_ = db.Close()
			return err
		}
		app.db = db
		app.userStore = postgres.NewPostgresUserStore(db.DB, app.logger)
		app.blogStore = postgres.NewPostgresBlogStore(db.DB, app.logger)
		app.likeStore = postgres.NewPostgresLikeStore(db.DB, app.logger)
		return nil

	default:
		return fmt.Errorf("unknown database driver %q", app.config.Database.Driver)
	}
}

func (app *application) setupServices() error {
	var err error

	app.jwtService, err = auth.NewJWTService(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", app.config.Auth.TokenLifetimeMinutes))

	hasher := auth.NewBcryptHasher(app.config.Auth.BcryptCost)

	app.userService, err = service.NewUserService(app.userStore, app.blogStore, hasher, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create user service: %w", err)
	}

	app.blogService, err = service.NewBlogService(app.blogStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create blog service: %w", err)
	}

	app.likeService, err = service.NewLikeService(app.likeStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create like service: %w", err)
	}

	return nil
}

// router builds the HTTP handler for the wired services.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		UserService:    app.userService,
		BlogService:    app.blogService,
		LikeService:    app.likeService,
		JWTService:     app.jwtService,
		Logger:         app.logger,
		AllowedOrigins: app.config.CORS.AllowedOrigins,
		ErrorDetails:   app.config.Server.IsDevelopment(),
	})
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.router()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database connection, if any.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
		app.db = nil
	}
	app.logger.Info("application shutdown completed")
}
