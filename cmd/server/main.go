package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugh/bugtracker/internal/accounts"
	"github.com/hugh/bugtracker/internal/api"
	"github.com/hugh/bugtracker/internal/api/middleware"
	"github.com/hugh/bugtracker/internal/auth"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/database"
	"github.com/hugh/bugtracker/internal/teams"
	"github.com/hugh/bugtracker/pkg/config"
	"github.com/hugh/bugtracker/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel, "server")
	slog.SetDefault(logger)

	logger.Info("starting bugtracker server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Schema is owned by cmd/migrate; development databases are kept in
	// step with the models for convenience.
	if cfg.Server.IsDevelopment() {
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// Redis is optional. Without it the limiter stays in memory and /health
	// omits the redis check.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to connect to Redis", "error", err)
		redisClient.Close()
		redisClient = nil
	}
	cancelPing()

	var closers []func()
	defer func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}()
	newLimiter := func(requests int) middleware.Limiter {
		if redisClient != nil {
			return middleware.NewRedisRateLimiter(redisClient, requests, cfg.RateLimit.WindowSeconds, logger)
		}
		memory := middleware.NewRateLimiter(requests, cfg.RateLimit.WindowSeconds)
		closers = append(closers, memory.Close)
		return memory
	}

	limiter := newLimiter(cfg.RateLimit.Requests)
	var userLimiter middleware.Limiter
	if cfg.RateLimit.UserRequests > 0 {
		userLimiter = newLimiter(cfg.RateLimit.UserRequests)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	bugService := bugs.NewService(db, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:              db,
		Redis:           redisClient,
		Logger:          logger,
		Tokens:          jwtService,
		AuthService:     auth.NewService(db, jwtService, logger),
		BugService:      bugService,
		TeamService:     teams.NewService(db, bugService, logger),
		AccountService:  accounts.NewService(db, bugService, logger),
		RateLimiter:     limiter,
		UserRateLimiter: userLimiter,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}
	database.Close(db)

	logger.Info("server stopped")
}
