// Package stats provides the dashboard and popularity ranking module.
package stats

import (
	apphttp "homeservices_backend/internal/http"
	identity "homeservices_backend/internal/identity/service"
	"homeservices_backend/internal/stats/handler"
	"homeservices_backend/internal/stats/repository"
	"homeservices_backend/internal/stats/service"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the stats bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the stats module with all its dependencies.
func NewModule(pool *pgxpool.Pool, resolver identity.Resolver, c cache.Cache, cfg config.CacheConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, resolver, c, log, cfg.GetStatsCacheTTL())
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "stats"
}

// Service returns the service layer, which the worker uses to refresh
// the popularity ranking.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the dashboard and popularity routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/stats", m.handler.Dashboard)
	ctx.V1.GET("/services/popular", m.handler.PopularServices)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
