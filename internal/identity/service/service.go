package service

import (
	"context"

	"homeservices_backend/internal/events"
	"homeservices_backend/internal/identity/repository"
	"homeservices_backend/internal/identity/transport"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/logger"
	"homeservices_backend/platform/phone"

	"github.com/google/uuid"
)

const recentRequestLimit = 5

// Service provides identity resolution, admin moderation, and the
// professional self-profile.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new identity service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// ListUsers retrieves the filtered admin account listing.
func (s *Service) ListUsers(ctx context.Context, req transport.ListUsersRequest) (transport.UserListResponse, error) {
	rows, err := s.repo.ListAccounts(ctx, repository.ListAccountsParams{
		Role:        repository.Role(req.Role),
		Name:        req.Name,
		Email:       req.Email,
		ServiceType: req.ServiceType,
		Status:      req.Status,
	})
	if err != nil {
		return transport.UserListResponse{}, err
	}

	items := make([]transport.UserAccountResponse, len(rows))
	for i, row := range rows {
		items[i] = toAccountResponse(row)
	}

	return transport.UserListResponse{Items: items, Total: len(items)}, nil
}

// GetProfessionalDetail assembles the admin professional detail screen.
func (s *Service) GetProfessionalDetail(ctx context.Context, id uuid.UUID) (transport.ProfessionalDetailResponse, error) {
	p, err := s.repo.GetProfessionalByID(ctx, id)
	if err != nil {
		return transport.ProfessionalDetailResponse{}, err
	}

	stats, err := s.repo.GetProfessionalStats(ctx, p.ID)
	if err != nil {
		return transport.ProfessionalDetailResponse{}, err
	}

	recent, err := s.repo.RecentRequestsForProfessional(ctx, p.ID, recentRequestLimit)
	if err != nil {
		return transport.ProfessionalDetailResponse{}, err
	}

	return transport.ProfessionalDetailResponse{
		Profile:        toProfessionalProfile(p),
		Stats:          toStatsResponse(stats),
		RecentRequests: toRequestSummaries(recent),
	}, nil
}

// ModerateProfessional applies an admin action to a professional profile.
// Blocking flips users.active in the same transaction as the profile flag.
func (s *Service) ModerateProfessional(ctx context.Context, id uuid.UUID, action string) (transport.ProfessionalProfile, error) {
	var p repository.Professional
	var err error

	switch action {
	case "approve":
		if err = s.repo.SetProfessionalApproved(ctx, id, true); err == nil {
			p, err = s.repo.GetProfessionalByID(ctx, id)
		}
	case "reject":
		if err = s.repo.SetProfessionalApproved(ctx, id, false); err == nil {
			p, err = s.repo.GetProfessionalByID(ctx, id)
		}
	case "block":
		p, err = s.repo.SetProfessionalBlocked(ctx, id, true)
	case "unblock":
		p, err = s.repo.SetProfessionalBlocked(ctx, id, false)
	default:
		return transport.ProfessionalProfile{}, apperr.Validation("unknown moderation action")
	}
	if err != nil {
		return transport.ProfessionalProfile{}, err
	}

	s.log.Info("professional moderated", "id", id, "action", action)
	s.publishModerated(ctx, p.UserID, repository.RoleProfessional, action)

	return toProfessionalProfile(p), nil
}

// GetCustomerDetail assembles the admin customer detail screen.
func (s *Service) GetCustomerDetail(ctx context.Context, id uuid.UUID) (transport.CustomerDetailResponse, error) {
	c, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return transport.CustomerDetailResponse{}, err
	}
	return transport.CustomerDetailResponse{Profile: toCustomerProfile(c)}, nil
}

// ModerateCustomer blocks or unblocks a customer, syncing users.active.
func (s *Service) ModerateCustomer(ctx context.Context, id uuid.UUID, action string) (transport.CustomerProfile, error) {
	var c repository.Customer
	var err error

	switch action {
	case "block":
		c, err = s.repo.SetCustomerBlocked(ctx, id, true)
	case "unblock":
		c, err = s.repo.SetCustomerBlocked(ctx, id, false)
	default:
		return transport.CustomerProfile{}, apperr.Validation("unknown moderation action")
	}
	if err != nil {
		return transport.CustomerProfile{}, err
	}

	s.log.Info("customer moderated", "id", id, "action", action)
	s.publishModerated(ctx, c.UserID, repository.RoleCustomer, action)

	return toCustomerProfile(c), nil
}

// GetOwnProfessionalProfile returns the caller's profile with stats.
func (s *Service) GetOwnProfessionalProfile(ctx context.Context, userID uuid.UUID) (transport.ProfessionalSelfResponse, error) {
	p, err := s.repo.GetProfessionalByUserID(ctx, userID)
	if err != nil {
		return transport.ProfessionalSelfResponse{}, err
	}

	stats, err := s.repo.GetProfessionalStats(ctx, p.ID)
	if err != nil {
		return transport.ProfessionalSelfResponse{}, err
	}

	return transport.ProfessionalSelfResponse{
		Profile: toProfessionalProfile(p),
		Stats:   toStatsResponse(stats),
	}, nil
}

// UpdateOwnProfessionalProfile applies the self-editable fields.
func (s *Service) UpdateOwnProfessionalProfile(ctx context.Context, userID uuid.UUID, req transport.UpdateProfessionalProfileRequest) (transport.ProfessionalProfile, error) {
	mobile := req.Mobile
	if mobile != nil {
		normalized := phone.NormalizeE164(*mobile)
		mobile = &normalized
	}

	p, err := s.repo.UpdateProfessional(ctx, repository.UpdateProfessionalParams{
		UserID:      userID,
		Name:        req.Name,
		Experience:  req.Experience,
		Description: req.Description,
		Mobile:      mobile,
		Pin:         req.Pin,
	})
	if err != nil {
		return transport.ProfessionalProfile{}, err
	}

	s.log.Info("professional profile updated", "userId", userID)
	return toProfessionalProfile(p), nil
}

func (s *Service) publishModerated(ctx context.Context, userID uuid.UUID, role repository.Role, action string) {
	switch action {
	case "approve":
		action = "approved"
	case "reject":
		action = "rejected"
	case "block":
		action = "blocked"
	case "unblock":
		action = "unblocked"
	}
	s.bus.Publish(ctx, events.AccountModerated{
		BaseEvent: events.NewBaseEvent(),
		UserID:    userID,
		Role:      string(role),
		Action:    action,
	})
}

func toAccountResponse(row repository.AccountRow) transport.UserAccountResponse {
	resp := transport.UserAccountResponse{
		ID:        row.User.ID,
		Email:     row.User.Email,
		Role:      string(row.User.Role),
		Active:    row.User.Active,
		CreatedAt: row.User.CreatedAt,
	}
	if row.Professional != nil {
		p := toProfessionalProfile(*row.Professional)
		resp.Professional = &p
	}
	if row.Customer != nil {
		c := toCustomerProfile(*row.Customer)
		resp.Customer = &c
	}
	return resp
}

func toProfessionalProfile(p repository.Professional) transport.ProfessionalProfile {
	return transport.ProfessionalProfile{
		ID:          p.ID,
		Name:        p.Name,
		ServiceType: p.ServiceType,
		Experience:  p.Experience,
		Description: p.Description,
		Mobile:      p.Mobile,
		Pin:         p.Pin,
		Approved:    p.Approved,
		Blocked:     p.Blocked,
	}
}

func toCustomerProfile(c repository.Customer) transport.CustomerProfile {
	return transport.CustomerProfile{
		ID:      c.ID,
		Name:    c.Name,
		Address: c.Address,
		Mobile:  c.Mobile,
		Pin:     c.Pin,
		Blocked: c.Blocked,
	}
}

func toStatsResponse(stats repository.ProfessionalStats) transport.ProfessionalStatsResponse {
	return transport.ProfessionalStatsResponse{
		TotalRequests:     stats.TotalRequests,
		CompletedRequests: stats.CompletedRequests,
		AverageRating:     stats.AverageRating,
		ReviewCount:       stats.ReviewCount,
	}
}

func toRequestSummaries(rows []repository.RequestSummary) []transport.RequestSummaryResponse {
	results := make([]transport.RequestSummaryResponse, len(rows))
	for i, row := range rows {
		results[i] = transport.RequestSummaryResponse{
			ID:          row.ID,
			ServiceName: row.ServiceName,
			Status:      row.Status,
			RequestedAt: row.RequestedAt,
		}
	}
	return results
}
