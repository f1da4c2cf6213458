// Package catalog provides the service catalog bounded context module:
// public browsing plus admin CRUD over the offered services.
package catalog

import (
	"homeservices_backend/internal/catalog/handler"
	"homeservices_backend/internal/catalog/repository"
	"homeservices_backend/internal/catalog/service"
	"homeservices_backend/internal/events"
	apphttp "homeservices_backend/internal/http"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/logger"
	"homeservices_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module with all its dependencies.
func NewModule(pool *pgxpool.Pool, c cache.Cache, bus events.Bus, cfg config.CacheConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, c, bus, log, cfg.GetCacheTTL())
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts public browsing and admin CRUD routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/services", m.handler.List)
	ctx.V1.GET("/services/types", m.handler.ListTypes)
	ctx.V1.GET("/services/:id", m.handler.Get)

	ctx.Admin.POST("/services", m.handler.Create)
	ctx.Admin.PUT("/services/:id", m.handler.Update)
	ctx.Admin.DELETE("/services/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
