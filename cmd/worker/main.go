package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/database"
	"github.com/hugh/bugtracker/internal/tasks"
	"github.com/hugh/bugtracker/pkg/config"
	"github.com/hugh/bugtracker/pkg/queue"
	"github.com/hugh/bugtracker/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel, "worker")
	slog.SetDefault(logger)

	logger.Info("starting bugtracker worker", "sweep_cron", cfg.Worker.SweepCron)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	srv := queue.NewServer(&cfg.Redis, cfg.Worker.Concurrency)

	handler := tasks.NewHandler(bugs.NewService(db, logger), logger)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	scheduler := queue.NewScheduler(&cfg.Redis)
	sweep, err := tasks.NewAssignmentSweepTask(tasks.AssignmentSweepPayload{Trigger: tasks.TriggerSchedule})
	if err != nil {
		logger.Error("failed to build sweep task", "error", err)
		os.Exit(1)
	}
	entryID, err := scheduler.Register(cfg.Worker.SweepCron, sweep)
	if err != nil {
		logger.Error("failed to schedule sweep", "error", err)
		os.Exit(1)
	}
	if next, err := util.NextCronTime(cfg.Worker.SweepCron, time.Now()); err == nil {
		logger.Info("scheduled assignment sweep", "entry_id", entryID, "next_run", next)
	}

	enqueueStartupSweep(&cfg.Redis, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
		cancel()
	}()

	if err := scheduler.Start(); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("worker started, waiting for tasks...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	<-ctx.Done()

	logger.Info("worker stopped")
}

// enqueueStartupSweep clears assignments left behind while the worker was
// down instead of waiting for the first scheduled run.
func enqueueStartupSweep(cfg *config.RedisConfig, logger *slog.Logger) {
	client := queue.NewClient(cfg)
	defer client.Close()

	task, err := tasks.NewAssignmentSweepTask(tasks.AssignmentSweepPayload{Trigger: tasks.TriggerStartup})
	if err != nil {
		logger.Error("failed to build startup sweep", "error", err)
		return
	}

	info, err := client.Enqueue(task)
	if err != nil {
		logger.Warn("failed to enqueue startup sweep", "error", err)
		return
	}
	logger.Info("enqueued startup sweep", "task_id", info.ID, "queue", info.Queue)
}
