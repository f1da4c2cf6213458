package handler

import (
	"homeservices_backend/internal/stats/service"
	"homeservices_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for dashboards and rankings.
type Handler struct {
	svc *service.Service
}

// New creates a new stats handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Dashboard returns the caller's role-scoped dashboard.
// GET /api/v1/stats
func (h *Handler) Dashboard(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Dashboard(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PopularServices returns the popularity ranking.
// GET /api/v1/services/popular
func (h *Handler) PopularServices(c *gin.Context) {
	result, err := h.svc.PopularServices(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
