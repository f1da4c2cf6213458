// Package reviews provides the review bounded context module.
package reviews

import (
	"homeservices_backend/internal/events"
	apphttp "homeservices_backend/internal/http"
	identity "homeservices_backend/internal/identity/service"
	"homeservices_backend/internal/reviews/handler"
	"homeservices_backend/internal/reviews/repository"
	"homeservices_backend/internal/reviews/service"
	"homeservices_backend/platform/logger"
	"homeservices_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reviews bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the reviews module with all its dependencies.
func NewModule(pool *pgxpool.Pool, requests service.RequestSource, resolver identity.Resolver, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, requests, resolver, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reviews"
}

// RegisterRoutes mounts the review routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/reviews", m.handler.Submit)
	ctx.Protected.GET("/reviews", m.handler.List)
	ctx.Protected.GET("/professional/reviews", m.handler.ListForProfessional)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
