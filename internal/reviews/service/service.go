package service

import (
	"context"

	"homeservices_backend/internal/events"
	identity "homeservices_backend/internal/identity/service"
	"homeservices_backend/internal/requests/domain"
	requestsrepo "homeservices_backend/internal/requests/repository"
	"homeservices_backend/internal/reviews/repository"
	"homeservices_backend/internal/reviews/transport"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// RequestSource reads request rows for review eligibility checks.
// Satisfied by the requests repository.
type RequestSource interface {
	Get(ctx context.Context, id uuid.UUID) (requestsrepo.Request, error)
}

// Service provides review business logic.
type Service struct {
	repo     repository.Repository
	requests RequestSource
	resolver identity.Resolver
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new review service.
func New(repo repository.Repository, requests RequestSource, resolver identity.Resolver, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, requests: requests, resolver: resolver, bus: bus, log: log}
}

// Submit records the owning customer's rating of a closed request.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req transport.SubmitReviewRequest) (transport.ReviewResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	if subject.Customer == nil {
		return transport.ReviewResponse{}, apperr.Forbidden("only customers can submit reviews")
	}

	request, err := s.requests.Get(ctx, req.RequestID)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	if request.CustomerID != subject.Customer.ID {
		return transport.ReviewResponse{}, apperr.Forbidden("request belongs to another customer")
	}
	if request.Status != domain.StatusClosed {
		return transport.ReviewResponse{}, apperr.Conflict("only closed requests can be reviewed")
	}

	review, err := s.repo.Create(ctx, repository.CreateParams{
		ServiceRequestID: req.RequestID,
		CustomerID:       subject.Customer.ID,
		Rating:           req.Rating,
		Comment:          req.Comment,
	})
	if err != nil {
		return transport.ReviewResponse{}, err
	}

	s.log.Info("review submitted", "id", review.ID, "request_id", req.RequestID, "rating", req.Rating)
	if request.ProfessionalID != nil {
		s.bus.Publish(ctx, events.ReviewSubmitted{
			BaseEvent:      events.NewBaseEvent(),
			ReviewID:       review.ID,
			RequestID:      req.RequestID,
			ProfessionalID: *request.ProfessionalID,
			Rating:         req.Rating,
		})
	}

	return transport.ReviewResponse{
		ID:           review.ID,
		RequestID:    review.ServiceRequestID,
		CustomerID:   review.CustomerID,
		CustomerName: subject.Customer.Name,
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt,
	}, nil
}

// List retrieves reviews, optionally scoped to one request.
func (s *Service) List(ctx context.Context, req transport.ListReviewsRequest) (transport.ReviewListResponse, error) {
	var params repository.ListParams
	if req.RequestID != "" {
		id, err := uuid.Parse(req.RequestID)
		if err != nil {
			return transport.ReviewListResponse{}, apperr.Validation("invalid request ID")
		}
		params.RequestID = &id
	}

	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ReviewListResponse{}, err
	}

	result := transport.ReviewListResponse{
		Items: make([]transport.ReviewResponse, len(rows)),
		Total: len(rows),
	}
	for i, row := range rows {
		result.Items[i] = toResponse(row)
	}

	return result, nil
}

// ListForProfessional pages through the calling professional's received
// reviews, newest first.
func (s *Service) ListForProfessional(ctx context.Context, userID uuid.UUID, req transport.ProfessionalReviewsRequest) (transport.PagedReviewsResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.PagedReviewsResponse{}, err
	}
	if subject.Professional == nil {
		return transport.PagedReviewsResponse{}, apperr.Forbidden("only professionals can list their reviews")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total, err := s.repo.CountForProfessional(ctx, subject.Professional.ID)
	if err != nil {
		return transport.PagedReviewsResponse{}, err
	}

	rows, err := s.repo.ListForProfessional(ctx, repository.ProfessionalPage{
		ProfessionalID: subject.Professional.ID,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	})
	if err != nil {
		return transport.PagedReviewsResponse{}, err
	}

	result := transport.PagedReviewsResponse{
		Items: make([]transport.ReviewResponse, len(rows)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i, row := range rows {
		result.Items[i] = toResponse(row)
	}

	return result, nil
}

func toResponse(rv repository.ReviewWithNames) transport.ReviewResponse {
	return transport.ReviewResponse{
		ID:           rv.ID,
		RequestID:    rv.ServiceRequestID,
		CustomerID:   rv.CustomerID,
		CustomerName: rv.CustomerName,
		ServiceName:  rv.ServiceName,
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		CreatedAt:    rv.CreatedAt,
	}
}
