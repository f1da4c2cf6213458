package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homeservices_backend/internal/catalog/repository"
	"homeservices_backend/internal/catalog/transport"
	"homeservices_backend/internal/events"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	cacheKeyList   = "catalog:list:"
	cacheKeyTypes  = "catalog:types"
	cacheKeyDetail = "catalog:detail:"

	typesCacheTTL = 30 * time.Minute
)

// Service provides catalog business logic with an advisory read cache.
type Service struct {
	repo     repository.Repository
	cache    cache.Cache
	bus      events.Bus
	log      *logger.Logger
	cacheTTL time.Duration
}

// New creates a new catalog service.
func New(repo repository.Repository, c cache.Cache, bus events.Bus, log *logger.Logger, cacheTTL time.Duration) *Service {
	return &Service{repo: repo, cache: c, bus: bus, log: log, cacheTTL: cacheTTL}
}

// List retrieves catalog entries, served from cache when possible.
func (s *Service) List(ctx context.Context, req transport.ListServicesRequest) (transport.ServiceListResponse, error) {
	key := fmt.Sprintf("%s%s:%s:%s", cacheKeyList, req.Name, req.ServiceType, req.Pin)

	var cached transport.ServiceListResponse
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	items, err := s.repo.List(ctx, repository.ListParams{
		Name:        req.Name,
		ServiceType: req.ServiceType,
		Pin:         req.Pin,
	})
	if err != nil {
		return transport.ServiceListResponse{}, err
	}

	result := transport.ServiceListResponse{
		Items: make([]transport.ServiceResponse, len(items)),
		Total: len(items),
	}
	for i, item := range items {
		result.Items[i] = toResponse(item.Service, item.HasProfessionals)
	}

	s.toCache(ctx, key, result, s.cacheTTL)
	return result, nil
}

// ListTypes retrieves the distinct service types.
func (s *Service) ListTypes(ctx context.Context) (transport.ServiceTypesResponse, error) {
	var cached transport.ServiceTypesResponse
	if s.fromCache(ctx, cacheKeyTypes, &cached) {
		return cached, nil
	}

	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return transport.ServiceTypesResponse{}, err
	}

	result := transport.ServiceTypesResponse{Types: types}
	s.toCache(ctx, cacheKeyTypes, result, typesCacheTTL)
	return result, nil
}

// GetByID retrieves a single catalog entry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ServiceResponse, error) {
	key := cacheKeyDetail + id.String()

	var cached transport.ServiceResponse
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	result := toResponse(svc, false)
	s.toCache(ctx, key, result, s.cacheTTL)
	return result, nil
}

// Create creates a catalog entry (admin only).
func (s *Service) Create(ctx context.Context, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	svc, err := s.repo.Create(ctx, repository.CreateParams{
		Name:           req.Name,
		PriceCents:     req.PriceCents,
		TimeReqMinutes: req.TimeReqMinutes,
		Description:    req.Description,
		ServiceType:    req.ServiceType,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service created", "id", svc.ID, "name", svc.Name)
	s.publishChanged(ctx, svc.ID, "created")
	return toResponse(svc, false), nil
}

// Update updates a catalog entry (admin only).
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateServiceRequest) (transport.ServiceResponse, error) {
	svc, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:             id,
		Name:           req.Name,
		PriceCents:     req.PriceCents,
		TimeReqMinutes: req.TimeReqMinutes,
		Description:    req.Description,
		ServiceType:    req.ServiceType,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service updated", "id", svc.ID, "name", svc.Name)
	s.publishChanged(ctx, svc.ID, "updated")
	return toResponse(svc, false), nil
}

// Delete removes a catalog entry (admin only).
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("service deleted", "id", id)
	s.publishChanged(ctx, id, "deleted")
	return nil
}

// Exists checks if a service exists by ID.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) publishChanged(ctx context.Context, id uuid.UUID, action string) {
	s.bus.Publish(ctx, events.CatalogServiceChanged{
		BaseEvent: events.NewBaseEvent(),
		ServiceID: id,
		Action:    action,
	})
}

// fromCache reads and decodes a cached value. A decode failure is treated
// as a miss.
func (s *Service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.log.CacheError("decode", key, err)
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.CacheError("encode", key, err)
		return
	}
	s.cache.Set(ctx, key, data, ttl)
}

func toResponse(svc repository.Service, hasProfessionals bool) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:               svc.ID,
		Name:             svc.Name,
		PriceCents:       svc.PriceCents,
		TimeReqMinutes:   svc.TimeReqMinutes,
		Description:      svc.Description,
		ServiceType:      svc.ServiceType,
		HasProfessionals: hasProfessionals,
		CreatedAt:        svc.CreatedAt,
		UpdatedAt:        svc.UpdatedAt,
	}
}
