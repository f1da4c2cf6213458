package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"homeservices_backend/internal/events"
	identityrepo "homeservices_backend/internal/identity/repository"
	identitysvc "homeservices_backend/internal/identity/service"
	"homeservices_backend/internal/scheduler"
	statsrepo "homeservices_backend/internal/stats/repository"
	statssvc "homeservices_backend/internal/stats/service"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/db"
	"homeservices_backend/platform/logger"
)

// The worker consumes asynq tasks: currently only the periodic popularity
// refresh enqueued by the API process.
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

	appCache := initCache(ctx, cfg, log)
	if closer, ok := appCache.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	resolver := identitysvc.New(identityrepo.New(pool), events.NewInMemoryBus(log), log)
	statsService := statssvc.New(statsrepo.New(pool), resolver, appCache, log, cfg.GetStatsCacheTTL())

	worker, err := scheduler.NewWorker(cfg, statsService, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker listening", "queue", cfg.GetAsynqQueueName())
	worker.Run(ctx)
}

func initCache(ctx context.Context, cfg *config.Config, log *logger.Logger) cache.Cache {
	if !cfg.IsCacheEnabled() {
		log.Warn("REDIS_URL not configured; running without cache")
		return cache.NewNoop()
	}

	redisCache, err := cache.NewRedis(ctx, cfg.GetRedisURL(), log)
	if err != nil {
		log.Warn("failed to connect to redis; running without cache", "error", err)
		return cache.NewNoop()
	}

	return redisCache
}
