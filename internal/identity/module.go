// Package identity provides the identity bounded context module: role
// resolution for other modules plus admin account moderation.
package identity

import (
	"homeservices_backend/internal/events"
	"homeservices_backend/internal/identity/handler"
	"homeservices_backend/internal/identity/repository"
	"homeservices_backend/internal/identity/service"
	apphttp "homeservices_backend/internal/http"
	"homeservices_backend/platform/logger"
	"homeservices_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the identity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the identity module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "identity"
}

// Service returns the service layer, which other modules use as the
// subject resolver.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts moderation and profile routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/users", m.handler.ListUsers)
	ctx.Admin.GET("/professionals/:id", m.handler.GetProfessional)
	ctx.Admin.PUT("/professionals/:id", m.handler.ModerateProfessional)
	ctx.Admin.GET("/customers/:id", m.handler.GetCustomer)
	ctx.Admin.PUT("/customers/:id", m.handler.ModerateCustomer)

	ctx.Protected.GET("/professional/profile", m.handler.GetOwnProfile)
	ctx.Protected.PUT("/professional/profile", m.handler.UpdateOwnProfile)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
