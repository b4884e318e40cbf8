package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugh/bugtracker/internal/database"
	"github.com/hugh/bugtracker/pkg/config"
	"github.com/hugh/bugtracker/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	command := flag.String("command", "up", "migration command: up, status or down")
	target := flag.Int64("target", 0, "version to roll back to with -command down (0 rolls back one)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel, "migrate")
	slog.SetDefault(logger)

	migrator, err := database.NewMigrator(cfg.Database.DSN(), logger)
	if err != nil {
		logger.Error("failed to create migrator", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	switch *command {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "down":
		err = migrator.Down(ctx, *target)
	default:
		logger.Error("unknown command", "command", *command)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
}
