package scheduler

import (
	"context"
	"fmt"

	"practicedesk_backend/platform/config"
	"practicedesk_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// MatterNotificationHandler processes dequeued matter notification tasks.
// Implemented by the notification deliverer.
type MatterNotificationHandler interface {
	HandleMatterNotification(ctx context.Context, payload MatterNotificationPayload) error
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	handler MatterNotificationHandler
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, handler MatterNotificationHandler, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		handler: handler,
		log:     log,
	}

	mux.HandleFunc(TaskMatterNotification, w.handleMatterNotification)

	return w, nil
}

func (w *Worker) handleMatterNotification(ctx context.Context, task *asynq.Task) error {
	if w.handler == nil {
		return nil
	}

	payload, err := ParseMatterNotificationPayload(task)
	if err != nil {
		return err
	}

	return w.handler.HandleMatterNotification(ctx, payload)
}

// Run blocks until ctx is cancelled, then shuts the server down.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
