package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	identity "homeservices_backend/internal/identity/service"
	"homeservices_backend/internal/stats/repository"
	"homeservices_backend/internal/stats/transport"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	cacheKeyPopular = "stats:popular"

	recentLimit  = 5
	popularLimit = 5
)

// Score is the popularity score of a catalog entry. Unrated services
// contribute a zero rating term.
func Score(requestCount int, averageRating float64) float64 {
	return 0.7*float64(requestCount) + 0.3*10*averageRating
}

// Service provides role-scoped dashboards and the popularity ranking.
type Service struct {
	repo     repository.Repository
	resolver identity.Resolver
	cache    cache.Cache
	log      *logger.Logger
	statsTTL time.Duration
}

// New creates a new stats service.
func New(repo repository.Repository, resolver identity.Resolver, c cache.Cache, log *logger.Logger, statsTTL time.Duration) *Service {
	return &Service{repo: repo, resolver: resolver, cache: c, log: log, statsTTL: statsTTL}
}

// Dashboard returns the caller's dashboard. Admins get platform totals,
// professionals their own aggregates, customers nothing.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (transport.DashboardResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.DashboardResponse{}, err
	}

	switch {
	case subject.IsAdmin():
		return s.adminDashboard(ctx)
	case subject.Professional != nil:
		return s.professionalDashboard(ctx, subject.Professional.ID)
	default:
		return transport.DashboardResponse{}, apperr.Forbidden("no dashboard for this role")
	}
}

func (s *Service) adminDashboard(ctx context.Context) (transport.DashboardResponse, error) {
	var (
		totals repository.AdminTotals
		recent []repository.RecentRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.AdminTotals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.RecentRequests(gctx, recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.DashboardResponse{}, err
	}

	return transport.DashboardResponse{
		Role:          "admin",
		TotalUsers:    totals.Users,
		Professionals: totals.Professionals,
		Customers:     totals.Customers,
		Services:      totals.Services,
		TotalRequests: totals.Requests,
		ByStatus: transport.StatusCountsResponse{
			Requested:    totals.ByStatus.Requested,
			Assigned:     totals.ByStatus.Assigned,
			ReadyToClose: totals.ByStatus.ReadyToClose,
			Closed:       totals.ByStatus.Closed,
		},
		RecentRequests: toRecentResponses(recent),
	}, nil
}

func (s *Service) professionalDashboard(ctx context.Context, professionalID uuid.UUID) (transport.DashboardResponse, error) {
	var (
		totals repository.ProfessionalTotals
		recent []repository.RecentRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.ProfessionalTotals(gctx, professionalID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.RecentRequestsForProfessional(gctx, professionalID, recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.DashboardResponse{}, err
	}

	return transport.DashboardResponse{
		Role:          "professional",
		TotalRequests: totals.Requests,
		ByStatus: transport.StatusCountsResponse{
			Assigned:     totals.ByStatus.Assigned,
			ReadyToClose: totals.ByStatus.ReadyToClose,
			Closed:       totals.ByStatus.Closed,
		},
		AverageRating:  &totals.AverageRating,
		ReviewCount:    &totals.ReviewCount,
		RecentRequests: toRecentResponses(recent),
	}, nil
}

// PopularServices returns the cached popularity ranking, recomputing on a
// miss.
func (s *Service) PopularServices(ctx context.Context) (transport.PopularServicesResponse, error) {
	if data, ok := s.cache.Get(ctx, cacheKeyPopular); ok {
		var cached transport.PopularServicesResponse
		err := json.Unmarshal(data, &cached)
		if err == nil {
			return cached, nil
		}
		s.log.CacheError("decode", cacheKeyPopular, err)
	}

	return s.RefreshPopular(ctx)
}

// RefreshPopular recomputes the popularity ranking and re-primes the
// cache. The scheduler worker calls this periodically.
func (s *Service) RefreshPopular(ctx context.Context) (transport.PopularServicesResponse, error) {
	rows, err := s.repo.PopularityRows(ctx)
	if err != nil {
		return transport.PopularServicesResponse{}, err
	}

	items := make([]transport.PopularServiceResponse, len(rows))
	for i, row := range rows {
		items[i] = transport.PopularServiceResponse{
			ServiceID:     row.ServiceID,
			Name:          row.Name,
			ServiceType:   row.ServiceType,
			RequestCount:  row.RequestCount,
			AverageRating: row.AverageRating,
			Score:         Score(row.RequestCount, row.AverageRating),
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	if len(items) > popularLimit {
		items = items[:popularLimit]
	}

	result := transport.PopularServicesResponse{Items: items}
	if data, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, cacheKeyPopular, data, s.statsTTL)
	}

	return result, nil
}

func toRecentResponses(rows []repository.RecentRequest) []transport.RecentRequestResponse {
	out := make([]transport.RecentRequestResponse, len(rows))
	for i, row := range rows {
		out[i] = transport.RecentRequestResponse{
			ID:               row.ID,
			ServiceName:      row.ServiceName,
			CustomerName:     row.CustomerName,
			ProfessionalName: row.ProfessionalName,
			Status:           row.Status,
			ReqDate:          row.ReqDate,
		}
	}
	return out
}
