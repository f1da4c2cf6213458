// Package auth provides the authentication bounded context module.
// It issues JWT access tokens and opaque, hashed refresh tokens.
package auth

import (
	"homeservices_backend/internal/auth/handler"
	"homeservices_backend/internal/auth/repository"
	"homeservices_backend/internal/auth/service"
	apphttp "homeservices_backend/internal/http"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/logger"
	"homeservices_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts auth routes with the stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())

	group.POST("/register", m.handler.Register)
	group.POST("/login", m.handler.Login)
	group.POST("/refresh", m.handler.Refresh)
	group.POST("/logout", m.handler.Logout)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
