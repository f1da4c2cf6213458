package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeservices_backend/internal/adapters"
	"homeservices_backend/internal/auth"
	"homeservices_backend/internal/catalog"
	"homeservices_backend/internal/events"
	apphttp "homeservices_backend/internal/http"
	"homeservices_backend/internal/http/router"
	"homeservices_backend/internal/identity"
	"homeservices_backend/internal/requests"
	"homeservices_backend/internal/reviews"
	"homeservices_backend/internal/scheduler"
	"homeservices_backend/internal/stats"
	"homeservices_backend/migrations"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/db"
	"homeservices_backend/platform/logger"
	"homeservices_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg.DatabaseURL, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	appCache := initCache(ctx, cfg, log)
	if closer, ok := appCache.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	popularityScheduler, closeScheduler := initPopularityScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Cache invalidation subscribes to domain events (not HTTP-facing)
	adapters.NewCacheInvalidator(appCache, log).Register(eventBus)

	identityModule := identity.NewModule(pool, eventBus, log, val)
	authModule := auth.NewModule(pool, cfg, log, val)
	catalogModule := catalog.NewModule(pool, appCache, eventBus, cfg, log, val)
	requestsModule := requests.NewModule(pool, identityModule.Service(), catalogModule.Repository(), appCache, eventBus, cfg, log, val)
	reviewsModule := reviews.NewModule(pool, requestsModule.Repository(), identityModule.Service(), eventBus, log, val)
	statsModule := stats.NewModule(pool, identityModule.Service(), appCache, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			identityModule,
			catalogModule,
			requestsModule,
			reviewsModule,
			statsModule,
		},
	}

	engine := router.New(app)

	if popularityScheduler != nil {
		go runPopularityTicker(ctx, cfg, popularityScheduler, log)
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCache connects the advisory read cache. Without Redis the app runs
// uncached rather than failing.
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

	log.Info("cache connected")
	return redisCache
}

func initPopularityScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.PopularityScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; popularity refresh disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize popularity scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// runPopularityTicker enqueues a popularity refresh on boot and on every
// configured interval. Enqueue failures only log; request handling is
// never affected.
func runPopularityTicker(ctx context.Context, cfg config.SchedulerConfig, s scheduler.PopularityScheduler, log *logger.Logger) {
	if err := s.EnqueuePopularityRefresh(ctx); err != nil {
		log.Warn("failed to enqueue popularity refresh", "error", err)
	}

	interval := cfg.GetPopularityRefreshInterval()
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.EnqueuePopularityRefresh(ctx); err != nil {
				log.Warn("failed to enqueue popularity refresh", "error", err)
			}
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
