package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/workops/internal/database"
	"github.com/hugh/workops/internal/tasks"
	"github.com/hugh/workops/pkg/config"
	"github.com/hugh/workops/pkg/queue"
	"github.com/hugh/workops/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env, "worker")
	slog.SetDefault(logger)

	logger.Info("starting WorkOps worker")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	srv := queue.NewServer(&cfg.Redis, 10)

	handler := tasks.NewHandler(db, logger, cfg.Activity.Retention())
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	var scheduler *asynq.Scheduler
	if cfg.Activity.PurgeCron != "" && cfg.Activity.Retention() > 0 {
		scheduler = queue.NewScheduler(&cfg.Redis)
		if _, err := scheduler.Register(cfg.Activity.PurgeCron, tasks.NewActivityPurgeTask()); err != nil {
			logger.Error("failed to register activity purge", "error", err)
			os.Exit(1)
		}
		if err := scheduler.Start(); err != nil {
			logger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}

		next, _ := util.NextCronTime(cfg.Activity.PurgeCron, time.Now())
		logger.Info("activity purge scheduled",
			"cron", cfg.Activity.PurgeCron,
			"retention_days", cfg.Activity.RetentionDays,
			"next_run", next,
		)
	}

	if err := srv.Start(mux); err != nil {
		logger.Error("worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("worker started, waiting for tasks...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker...")
	if scheduler != nil {
		scheduler.Shutdown()
	}
	srv.Shutdown()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
