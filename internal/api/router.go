package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/medium-api/internal/api/middleware"
	"github.com/phrazzld/medium-api/internal/api/shared"
	"github.com/phrazzld/medium-api/internal/service"
	"github.com/phrazzld/medium-api/internal/service/auth"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	UserService service.UserService
	BlogService service.BlogService
	LikeService service.LikeService
	JWTService  auth.JWTService
	Logger      *slog.Logger

	// AllowedOrigins lists the CORS origins; empty means any.
	AllowedOrigins []string

	// ErrorDetails attaches redacted internal errors to 500 responses.
	ErrorDetails bool
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Trace-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.TraceMiddleware(logger))
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	if cfg.ErrorDetails {
		r.Use(middleware.ErrorDetails)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTService)
	userHandler := NewUserHandler(cfg.UserService, cfg.JWTService, logger)
	blogHandler := NewBlogHandler(cfg.BlogService, cfg.LikeService, logger)

	r.Get("/", textHandler("Hello!"))
	r.Get("/health", textHandler("OK"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", textHandler("from api/v1"))

		r.Route("/user", func(r chi.Router) {
			r.Get("/", textHandler("from api/v1/user"))

			r.Post("/signup", userHandler.Signup)
			r.Post("/signin", userHandler.Signin)
			r.Post("/login", userHandler.Signin)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/me", userHandler.Me)
				r.Post("/me", userHandler.Me)
			})

			r.With(authMiddleware.Identify).Get("/{id}", userHandler.Profile)
		})

		r.Route("/blog", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/", blogHandler.CreateBlog)
				r.Put("/", blogHandler.UpdateBlog)
				r.Get("/drafts", blogHandler.ListDrafts)
				r.Post("/{id}/like", blogHandler.ToggleLike)
				r.Delete("/{id}", blogHandler.DeleteBlog)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Identify)
				r.Get("/bulk", blogHandler.ListBlogs)
				r.Get("/search", blogHandler.SearchBlogs)
				r.Get("/{id}", blogHandler.GetBlog)
			})
		})
	})

	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	return r
}

func textHandler(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithText(w, r, http.StatusOK, text)
	}
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithMessage(w, r, http.StatusNotFound, msgRouteNotFound)
}
