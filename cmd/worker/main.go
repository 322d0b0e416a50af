package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"practicedesk_backend/internal/email"
	"practicedesk_backend/internal/notification"
	"practicedesk_backend/internal/scheduler"
	"practicedesk_backend/platform/config"
	"practicedesk_backend/platform/db"
	"practicedesk_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	sender := email.NewSender(cfg)
	deliverer := notification.NewDeliverer(notification.NewRepository(pool), sender, log)

	worker, err := scheduler.NewWorker(cfg, deliverer, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}
