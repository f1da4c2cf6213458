package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"homeservices_backend/internal/events"
	identity "homeservices_backend/internal/identity/service"
	"homeservices_backend/internal/requests/domain"
	"homeservices_backend/internal/requests/repository"
	"homeservices_backend/internal/requests/transport"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	cacheKeyListPrefix = "requests:list:"

	dateLayout = "2006-01-02"
)

// ServiceChecker verifies that a catalog entry exists. Satisfied by the
// catalog repository.
type ServiceChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service implements the request lifecycle engine: creation, assignment,
// completion, closing, role-scoped edits, and the visibility filter.
type Service struct {
	repo     repository.Repository
	resolver identity.Resolver
	services ServiceChecker
	cache    cache.Cache
	bus      events.Bus
	log      *logger.Logger
	cacheTTL time.Duration
}

// New creates a new request service.
func New(repo repository.Repository, resolver identity.Resolver, services ServiceChecker, c cache.Cache, bus events.Bus, log *logger.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		services: services,
		cache:    c,
		bus:      bus,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

// Create opens a new request bound to the caller's customer profile.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateRequestRequest) (transport.RequestResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if subject.Customer == nil {
		return transport.RequestResponse{}, apperr.Forbidden("only customers can create requests")
	}

	if req.ScheduledDate != nil && req.ScheduledDate.Before(startOfToday()) {
		return transport.RequestResponse{}, apperr.Validation("scheduled date cannot be in the past")
	}

	exists, err := s.services.Exists(ctx, req.ServiceID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if !exists {
		return transport.RequestResponse{}, apperr.NotFound("service not found")
	}

	created, err := s.repo.Create(ctx, repository.CreateParams{
		ServiceID:  req.ServiceID,
		CustomerID: subject.Customer.ID,
		ReqDate:    req.ScheduledDate,
		Remarks:    req.Remarks,
	})
	if err != nil {
		return transport.RequestResponse{}, err
	}

	s.log.Info("request created", "id", created.ID, "service_id", created.ServiceID, "customer_id", created.CustomerID)
	s.bus.Publish(ctx, events.ServiceRequestCreated{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  created.ID,
		ServiceID:  created.ServiceID,
		CustomerID: created.CustomerID,
	})

	return s.detailResponse(ctx, created.ID)
}

// Accept assigns the request to the calling professional. Concurrent
// accepts resolve in the database; losers get a conflict.
func (s *Service) Accept(ctx context.Context, userID, requestID uuid.UUID) (transport.RequestResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if subject.Professional == nil {
		return transport.RequestResponse{}, apperr.Forbidden("only professionals can accept requests")
	}
	if !subject.Professional.Approved {
		return transport.RequestResponse{}, apperr.Forbidden("professional not yet approved")
	}

	if _, err := s.repo.Get(ctx, requestID); err != nil {
		return transport.RequestResponse{}, err
	}

	if err := s.repo.Accept(ctx, requestID, subject.Professional.ID); err != nil {
		return transport.RequestResponse{}, err
	}

	s.log.Info("request accepted", "id", requestID, "professional_id", subject.Professional.ID)
	s.bus.Publish(ctx, events.ServiceRequestAssigned{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      requestID,
		ProfessionalID: subject.Professional.ID,
	})

	return s.detailResponse(ctx, requestID)
}

// Reject records that the professional passed on an open request. The
// request stays in the pool untouched.
func (s *Service) Reject(ctx context.Context, userID, requestID uuid.UUID) error {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return err
	}
	if subject.Professional == nil {
		return apperr.Forbidden("only professionals can reject requests")
	}

	current, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if current.Status != domain.StatusRequested {
		return apperr.Conflict("request is not open")
	}

	s.log.Info("request rejected", "id", requestID, "professional_id", subject.Professional.ID)
	return nil
}

// Complete marks the assigned professional's work done.
func (s *Service) Complete(ctx context.Context, userID, requestID uuid.UUID, req transport.CompleteRequestRequest) (transport.RequestResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if subject.Professional == nil {
		return transport.RequestResponse{}, apperr.Forbidden("only professionals can complete requests")
	}

	current, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if current.ProfessionalID == nil || *current.ProfessionalID != subject.Professional.ID {
		return transport.RequestResponse{}, apperr.Forbidden("request is not assigned to you")
	}

	if err := s.repo.Complete(ctx, requestID, subject.Professional.ID, req.Remarks); err != nil {
		return transport.RequestResponse{}, err
	}

	s.log.Info("request completed", "id", requestID, "professional_id", subject.Professional.ID)
	s.bus.Publish(ctx, events.ServiceRequestCompleted{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      requestID,
		ProfessionalID: subject.Professional.ID,
	})

	return s.detailResponse(ctx, requestID)
}

// Close finalizes the request on the owning customer's behalf.
func (s *Service) Close(ctx context.Context, userID, requestID uuid.UUID) (transport.RequestResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if subject.Customer == nil {
		return transport.RequestResponse{}, apperr.Forbidden("only customers can close requests")
	}

	current, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if current.CustomerID != subject.Customer.ID {
		return transport.RequestResponse{}, apperr.Forbidden("request belongs to another customer")
	}

	if err := s.repo.Close(ctx, requestID, subject.Customer.ID); err != nil {
		return transport.RequestResponse{}, err
	}

	s.log.Info("request closed", "id", requestID, "customer_id", subject.Customer.ID)
	s.bus.Publish(ctx, events.ServiceRequestClosed{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  requestID,
		CustomerID: subject.Customer.ID,
	})

	return s.detailResponse(ctx, requestID)
}

// Update applies role-scoped field edits.
func (s *Service) Update(ctx context.Context, userID, requestID uuid.UUID, req transport.UpdateRequestRequest) (transport.RequestResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	current, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	var params repository.UpdateParams
	switch {
	case subject.IsAdmin():
		params, err = s.adminUpdateParams(current, req)
	case subject.Customer != nil:
		params, err = s.customerUpdateParams(subject.Customer.ID, current, req)
	case subject.Professional != nil:
		params, err = s.professionalUpdateParams(subject.Professional.ID, current, req)
	default:
		err = apperr.Forbidden("not allowed to edit this request")
	}
	if err != nil {
		return transport.RequestResponse{}, err
	}
	params.ID = requestID

	updated, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	s.log.Info("request updated", "id", requestID, "status", updated.Status)
	if updated.Status == domain.StatusClosed && current.Status != domain.StatusClosed {
		s.bus.Publish(ctx, events.ServiceRequestClosed{
			BaseEvent:  events.NewBaseEvent(),
			RequestID:  requestID,
			CustomerID: updated.CustomerID,
		})
	} else {
		s.bus.Publish(ctx, events.ServiceRequestUpdated{
			BaseEvent: events.NewBaseEvent(),
			RequestID: requestID,
		})
	}

	return s.detailResponse(ctx, requestID)
}

func (s *Service) customerUpdateParams(customerID uuid.UUID, current repository.Request, req transport.UpdateRequestRequest) (repository.UpdateParams, error) {
	if current.CustomerID != customerID {
		return repository.UpdateParams{}, apperr.Forbidden("request belongs to another customer")
	}
	if req.ProfessionalID != nil {
		return repository.UpdateParams{}, apperr.Forbidden("customers cannot assign professionals")
	}

	expected := current.Status
	params := repository.UpdateParams{Remarks: req.Remarks, ExpectedStatus: &expected}

	if req.ScheduledDate != nil {
		if current.Status != domain.StatusRequested {
			return repository.UpdateParams{}, apperr.Conflict("scheduled date can only change while requested")
		}
		if req.ScheduledDate.Before(startOfToday()) {
			return repository.UpdateParams{}, apperr.Validation("scheduled date cannot be in the past")
		}
		params.ReqDate = req.ScheduledDate
	}

	if req.Status != nil {
		target := domain.Status(*req.Status)
		if target != domain.StatusClosed {
			return repository.UpdateParams{}, apperr.Forbidden("customers may only close requests")
		}
		if !domain.Closeable(current.Status) {
			return repository.UpdateParams{}, apperr.Conflict("request cannot be closed")
		}
		params.Status = &target
		params.SetCompDate = true
	}

	return params, nil
}

func (s *Service) professionalUpdateParams(professionalID uuid.UUID, current repository.Request, req transport.UpdateRequestRequest) (repository.UpdateParams, error) {
	if current.ProfessionalID == nil || *current.ProfessionalID != professionalID {
		return repository.UpdateParams{}, apperr.Forbidden("request is not assigned to you")
	}
	if req.Status != nil || req.ScheduledDate != nil || req.ProfessionalID != nil {
		return repository.UpdateParams{}, apperr.Forbidden("professionals may only edit remarks")
	}

	expected := current.Status
	return repository.UpdateParams{Remarks: req.Remarks, ExpectedStatus: &expected}, nil
}

func (s *Service) adminUpdateParams(current repository.Request, req transport.UpdateRequestRequest) (repository.UpdateParams, error) {
	expected := current.Status
	params := repository.UpdateParams{
		Remarks:        req.Remarks,
		ReqDate:        req.ScheduledDate,
		ProfessionalID: req.ProfessionalID,
		ExpectedStatus: &expected,
	}

	if req.Status != nil {
		target := domain.Status(*req.Status)
		if !domain.CanTransition(current.Status, target) {
			return repository.UpdateParams{}, apperr.Conflict(
				fmt.Sprintf("cannot move request from %s to %s", current.Status, target))
		}
		if target == domain.StatusAssigned && current.ProfessionalID == nil && req.ProfessionalID == nil {
			return repository.UpdateParams{}, apperr.Validation("assigned request requires a professional")
		}
		params.Status = &target
		params.SetCompDate = target == domain.StatusClosed
	}

	// A professional on a still-requested row would vanish from the open
	// pool while no accept path exists for it.
	if req.ProfessionalID != nil {
		effective := current.Status
		if params.Status != nil {
			effective = *params.Status
		}
		if effective == domain.StatusRequested {
			return repository.UpdateParams{}, apperr.Conflict("professional can only be set on an assigned request")
		}
	}

	return params, nil
}

// Delete withdraws an open request.
func (s *Service) Delete(ctx context.Context, userID, requestID uuid.UUID) error {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return err
	}

	current, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return err
	}

	owner := subject.Customer != nil && current.CustomerID == subject.Customer.ID
	if !subject.IsAdmin() && !owner {
		return apperr.Forbidden("not allowed to delete this request")
	}

	if err := s.repo.Delete(ctx, requestID); err != nil {
		return err
	}

	s.log.Info("request deleted", "id", requestID)
	s.bus.Publish(ctx, events.ServiceRequestDeleted{
		BaseEvent: events.NewBaseEvent(),
		RequestID: requestID,
	})

	return nil
}

// Get retrieves a single request if the caller may see it.
func (s *Service) Get(ctx context.Context, userID, requestID uuid.UUID) (transport.RequestResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	detail, err := s.repo.GetDetail(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	if !canSee(subject, detail) {
		return transport.RequestResponse{}, apperr.Forbidden("not allowed to view this request")
	}

	return toResponse(detail), nil
}

func canSee(subject identity.Subject, detail repository.Detail) bool {
	switch {
	case subject.IsAdmin():
		return true
	case subject.Customer != nil:
		return detail.CustomerID == subject.Customer.ID
	case subject.Professional != nil:
		if detail.ProfessionalID != nil && *detail.ProfessionalID == subject.Professional.ID {
			return true
		}
		return subject.Professional.Approved &&
			detail.Status == domain.StatusRequested && detail.ProfessionalID == nil
	}
	return false
}

// List applies the role visibility filter and the query filters, cached
// per caller and query.
func (s *Service) List(ctx context.Context, userID uuid.UUID, req transport.ListRequestsRequest) (transport.RequestListResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.RequestListResponse{}, err
	}

	if req.RoleView != "" && !subject.IsAdmin() && req.RoleView != string(subject.Role) {
		return transport.RequestListResponse{}, apperr.Forbidden("cannot view requests as another role")
	}

	key := listCacheKey(userID, req)

	var cached transport.RequestListResponse
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	filter := repository.ListFilter{
		Status: req.Status,
		Search: req.Search,
	}
	if filter.From, err = parseDate(req.From, false); err != nil {
		return transport.RequestListResponse{}, err
	}
	if filter.To, err = parseDate(req.To, true); err != nil {
		return transport.RequestListResponse{}, err
	}

	// The professional ordering follows the effective view, so an admin
	// browsing as a professional gets the same sort.
	professionalView := req.RoleView == "professional"
	switch {
	case subject.IsAdmin():
		// Unscoped.
	case subject.Professional != nil:
		filter.ProfessionalID = &subject.Professional.ID
		filter.IncludeOpenPool = subject.Professional.Approved
		professionalView = true
	case subject.Customer != nil:
		filter.CustomerID = &subject.Customer.ID
	default:
		return transport.RequestListResponse{}, apperr.Forbidden("not allowed to list requests")
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return transport.RequestListResponse{}, err
	}

	// Professionals see open pool rows ahead of their own assignments.
	// The limit cuts after sorting so open work is never pushed out.
	if professionalView {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Status == domain.StatusRequested && rows[j].Status != domain.StatusRequested
		})
	}
	if req.Limit > 0 && len(rows) > req.Limit {
		rows = rows[:req.Limit]
	}

	result := transport.RequestListResponse{
		Items: make([]transport.RequestResponse, len(rows)),
		Total: len(rows),
	}
	for i, row := range rows {
		result.Items[i] = toResponse(row)
	}

	s.toCache(ctx, key, result, s.cacheTTL)
	return result, nil
}

// Schedule retrieves the calling professional's assignments for one day.
func (s *Service) Schedule(ctx context.Context, userID uuid.UUID, req transport.ScheduleRequest) (transport.RequestListResponse, error) {
	subject, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	if subject.Professional == nil {
		return transport.RequestListResponse{}, apperr.Forbidden("only professionals have a schedule")
	}

	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return transport.RequestListResponse{}, apperr.Validation("invalid date")
	}

	rows, err := s.repo.ScheduleForProfessional(ctx, subject.Professional.ID, day)
	if err != nil {
		return transport.RequestListResponse{}, err
	}

	result := transport.RequestListResponse{
		Items: make([]transport.RequestResponse, len(rows)),
		Total: len(rows),
	}
	for i, row := range rows {
		result.Items[i] = toResponse(row)
	}

	return result, nil
}

// listCacheKey derives the per-caller cache key. The filter values are
// hashed so free-form input cannot collide with a different filter
// combination.
func listCacheKey(userID uuid.UUID, req transport.ListRequestsRequest) string {
	sig := sha256.Sum256(fmt.Appendf(nil, "%s\x00%s\x00%s\x00%s\x00%d\x00%s",
		req.Status, req.From, req.To, req.Search, req.Limit, req.RoleView))
	return fmt.Sprintf("%s%s:%x", cacheKeyListPrefix, userID, sig)
}

func (s *Service) detailResponse(ctx context.Context, id uuid.UUID) (transport.RequestResponse, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	return toResponse(detail), nil
}

func toResponse(d repository.Detail) transport.RequestResponse {
	return transport.RequestResponse{
		ID:               d.ID,
		ServiceID:        d.ServiceID,
		ServiceName:      d.ServiceName,
		ServiceType:      d.ServiceType,
		PriceCents:       d.ServicePriceCents,
		CustomerID:       d.CustomerID,
		CustomerName:     d.CustomerName,
		CustomerAddress:  d.CustomerAddress,
		CustomerPin:      d.CustomerPin,
		ProfessionalID:   d.ProfessionalID,
		ProfessionalName: d.ProfessionalName,
		Status:           string(d.Status),
		ReqDate:          d.ReqDate,
		CompDate:         d.CompDate,
		Remarks:          d.Remarks,
		HasReview:        d.HasReview,
	}
}

// parseDate parses a YYYY-MM-DD query value. End dates extend to the last
// instant of the day so the range is inclusive.
func parseDate(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperr.Validation("invalid date")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

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
