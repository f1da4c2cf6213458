// Package requests provides the request lifecycle bounded context module:
// the state machine, role-scoped visibility, and schedule views.
package requests

import (
	"homeservices_backend/internal/events"
	apphttp "homeservices_backend/internal/http"
	identity "homeservices_backend/internal/identity/service"
	"homeservices_backend/internal/requests/handler"
	"homeservices_backend/internal/requests/repository"
	"homeservices_backend/internal/requests/service"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/logger"
	"homeservices_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the requests module with all its dependencies.
func NewModule(pool *pgxpool.Pool, resolver identity.Resolver, services service.ServiceChecker, c cache.Cache, bus events.Bus, cfg config.CacheConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, resolver, services, c, bus, log, cfg.GetCacheTTL())
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the request lifecycle routes. All of them require
// authentication; role checks live in the service layer.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	requests := ctx.Protected.Group("/requests")
	{
		requests.POST("", m.handler.Create)
		requests.GET("", m.handler.List)
		requests.GET("/schedule", m.handler.Schedule)
		requests.GET("/:id", m.handler.Get)
		requests.PUT("/:id", m.handler.Update)
		requests.DELETE("/:id", m.handler.Delete)
		requests.POST("/:id/accept", m.handler.Accept)
		requests.POST("/:id/reject", m.handler.Reject)
		requests.POST("/:id/complete", m.handler.Complete)
		requests.POST("/:id/close", m.handler.Close)
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
