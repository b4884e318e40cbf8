package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/bugtracker/internal/accounts"
	"github.com/hugh/bugtracker/internal/api/handlers"
	"github.com/hugh/bugtracker/internal/api/middleware"
	"github.com/hugh/bugtracker/internal/auth"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/teams"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB              *gorm.DB
	Redis           *redis.Client // optional
	Logger          *slog.Logger
	Tokens          auth.TokenService
	AuthService     *auth.Service
	BugService      *bugs.Service
	TeamService     *teams.Service
	AccountService  *accounts.Service
	RateLimiter     middleware.Limiter // per client IP; nil disables rate limiting
	UserRateLimiter middleware.Limiter // per authenticated user; nil disables it
	AllowedOrigins  []string           // CORS allowed origins
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Logger)
	teamHandler := handlers.NewTeamHandler(cfg.TeamService, cfg.Logger)
	bugHandler := handlers.NewBugHandler(cfg.BugService, cfg.TeamService, cfg.Logger)
	accountHandler := handlers.NewAccountHandler(cfg.AccountService, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Public auth endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Tokens))
		if cfg.UserRateLimiter != nil {
			r.Use(middleware.RateLimitByUser(cfg.UserRateLimiter))
		}

		r.Get("/me", authHandler.Me)

		r.Route("/teams", func(r chi.Router) {
			r.Post("/create", teamHandler.Create)
			r.Post("/join", teamHandler.Join)
		})

		r.Route("/bugs", func(r chi.Router) {
			r.Get("/", bugHandler.List)
			r.Post("/", bugHandler.Create)
			r.Get("/stats", bugHandler.Stats)
			r.Get("/team-members", teamHandler.Members)
			r.Delete("/users/{id}", accountHandler.Delete)
			r.Get("/{id}", bugHandler.Get)
			r.Put("/{id}", bugHandler.Update)
			r.Delete("/{id}", bugHandler.Delete)
		})
	})

	return &Router{r}
}
