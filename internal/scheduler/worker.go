package scheduler

import (
	"context"
	"fmt"

	statssvc "homeservices_backend/internal/stats/service"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultConcurrency = 10

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	stats  *statssvc.Service
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, stats *statssvc.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: defaultConcurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		stats:  stats,
		log:    log,
	}

	mux.HandleFunc(TaskPopularityRefresh, w.handlePopularityRefresh)

	return w, nil
}

func (w *Worker) handlePopularityRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePopularityRefreshPayload(task)
	if err != nil {
		return err
	}

	result, err := w.stats.RefreshPopular(ctx)
	if err != nil {
		return err
	}

	w.log.Info("popularity ranking refreshed",
		"entries", len(result.Items),
		"requested_at", payload.RequestedAt,
	)
	return nil
}

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
