package service

import (
	"context"
	"testing"
	"time"

	"homeservices_backend/internal/events"
	identityrepo "homeservices_backend/internal/identity/repository"
	identity "homeservices_backend/internal/identity/service"
	"homeservices_backend/internal/requests/domain"
	requestsrepo "homeservices_backend/internal/requests/repository"
	"homeservices_backend/internal/reviews/repository"
	"homeservices_backend/internal/reviews/transport"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	reviews []repository.Review
	// professional per request, for the professional listing
	assignee map[uuid.UUID]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{assignee: make(map[uuid.UUID]uuid.UUID)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Review, error) {
	for _, rv := range f.reviews {
		if rv.ServiceRequestID == params.ServiceRequestID && rv.CustomerID == params.CustomerID {
			return repository.Review{}, apperr.Conflict("request already reviewed")
		}
	}
	rv := repository.Review{
		ID:               uuid.New(),
		ServiceRequestID: params.ServiceRequestID,
		CustomerID:       params.CustomerID,
		Rating:           params.Rating,
		Comment:          params.Comment,
		CreatedAt:        time.Now(),
	}
	f.reviews = append(f.reviews, rv)
	return rv, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.ReviewWithNames, error) {
	var out []repository.ReviewWithNames
	for _, rv := range f.reviews {
		if params.RequestID != nil && rv.ServiceRequestID != *params.RequestID {
			continue
		}
		out = append(out, repository.ReviewWithNames{Review: rv, CustomerName: "Cam", ServiceName: "Tap Repair"})
	}
	return out, nil
}

func (f *fakeRepo) forProfessional(professionalID uuid.UUID) []repository.ReviewWithNames {
	var out []repository.ReviewWithNames
	for _, rv := range f.reviews {
		if f.assignee[rv.ServiceRequestID] == professionalID {
			out = append(out, repository.ReviewWithNames{Review: rv, CustomerName: "Cam", ServiceName: "Tap Repair"})
		}
	}
	return out
}

func (f *fakeRepo) ListForProfessional(_ context.Context, page repository.ProfessionalPage) ([]repository.ReviewWithNames, error) {
	all := f.forProfessional(page.ProfessionalID)
	if page.Offset >= len(all) {
		return nil, nil
	}
	end := page.Offset + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[page.Offset:end], nil
}

func (f *fakeRepo) CountForProfessional(_ context.Context, professionalID uuid.UUID) (int, error) {
	return len(f.forProfessional(professionalID)), nil
}

var _ repository.Repository = (*fakeRepo)(nil)

type fakeRequests struct {
	requests map[uuid.UUID]requestsrepo.Request
}

func (f *fakeRequests) Get(_ context.Context, id uuid.UUID) (requestsrepo.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return requestsrepo.Request{}, apperr.NotFound("service request not found")
	}
	return r, nil
}

type fakeResolver struct {
	subjects map[uuid.UUID]identity.Subject
}

func (f *fakeResolver) Resolve(_ context.Context, userID uuid.UUID) (identity.Subject, error) {
	s, ok := f.subjects[userID]
	if !ok {
		return identity.Subject{}, apperr.NotFound("user not found")
	}
	return s, nil
}

type env struct {
	svc      *Service
	repo     *fakeRepo
	requests *fakeRequests
	resolver *fakeResolver
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.New("development")
	repo := newFakeRepo()
	requests := &fakeRequests{requests: make(map[uuid.UUID]requestsrepo.Request)}
	resolver := &fakeResolver{subjects: make(map[uuid.UUID]identity.Subject)}
	svc := New(repo, requests, resolver, events.NewInMemoryBus(log), log)
	return &env{svc: svc, repo: repo, requests: requests, resolver: resolver}
}

func (e *env) addCustomer() (userID, profileID uuid.UUID) {
	userID = uuid.New()
	profileID = uuid.New()
	e.resolver.subjects[userID] = identity.Subject{
		User:     identityrepo.User{ID: userID, Role: identityrepo.RoleCustomer, Active: true},
		Role:     identityrepo.RoleCustomer,
		Customer: &identityrepo.Customer{ID: profileID, UserID: userID, Name: "Cam"},
	}
	return userID, profileID
}

func (e *env) addProfessional() (userID, profileID uuid.UUID) {
	userID = uuid.New()
	profileID = uuid.New()
	e.resolver.subjects[userID] = identity.Subject{
		User:         identityrepo.User{ID: userID, Role: identityrepo.RoleProfessional, Active: true},
		Role:         identityrepo.RoleProfessional,
		Professional: &identityrepo.Professional{ID: profileID, UserID: userID, Name: "Pat", Approved: true},
	}
	return userID, profileID
}

func (e *env) seedRequest(customerID uuid.UUID, status domain.Status, professionalID *uuid.UUID) uuid.UUID {
	r := requestsrepo.Request{
		ID:             uuid.New(),
		ServiceID:      uuid.New(),
		CustomerID:     customerID,
		ProfessionalID: professionalID,
		ReqDate:        time.Now(),
		Status:         status,
	}
	if status == domain.StatusClosed {
		now := time.Now()
		r.CompDate = &now
	}
	e.requests.requests[r.ID] = r
	if professionalID != nil {
		e.repo.assignee[r.ID] = *professionalID
	}
	return r.ID
}

func TestSubmit(t *testing.T) {
	e := newEnv(t)
	custUser, custProfile := e.addCustomer()
	otherCust, _ := e.addCustomer()
	proUser, proProfile := e.addProfessional()
	ctx := context.Background()

	closedID := e.seedRequest(custProfile, domain.StatusClosed, &proProfile)
	openID := e.seedRequest(custProfile, domain.StatusAssigned, &proProfile)

	t.Run("owner reviews a closed request", func(t *testing.T) {
		result, err := e.svc.Submit(ctx, custUser, transport.SubmitReviewRequest{RequestID: closedID, Rating: 5, Comment: "great work"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Rating != 5 {
			t.Fatalf("expected rating 5, got %d", result.Rating)
		}
	})

	t.Run("duplicate review conflicts", func(t *testing.T) {
		_, err := e.svc.Submit(ctx, custUser, transport.SubmitReviewRequest{RequestID: closedID, Rating: 4})
		if !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("only closed requests", func(t *testing.T) {
		_, err := e.svc.Submit(ctx, custUser, transport.SubmitReviewRequest{RequestID: openID, Rating: 4})
		if !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := e.svc.Submit(ctx, otherCust, transport.SubmitReviewRequest{RequestID: closedID, Rating: 3})
		if !apperr.Is(err, apperr.KindForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("professionals cannot review", func(t *testing.T) {
		_, err := e.svc.Submit(ctx, proUser, transport.SubmitReviewRequest{RequestID: closedID, Rating: 3})
		if !apperr.Is(err, apperr.KindForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := e.svc.Submit(ctx, custUser, transport.SubmitReviewRequest{RequestID: uuid.New(), Rating: 3})
		if !apperr.Is(err, apperr.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestListForProfessionalPaging(t *testing.T) {
	e := newEnv(t)
	custUser, custProfile := e.addCustomer()
	proUser, proProfile := e.addProfessional()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := e.seedRequest(custProfile, domain.StatusClosed, &proProfile)
		if _, err := e.svc.Submit(ctx, custUser, transport.SubmitReviewRequest{RequestID: id, Rating: 4}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	result, err := e.svc.ListForProfessional(ctx, proUser, transport.ProfessionalReviewsRequest{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 5 {
		t.Fatalf("expected total 5, got %d", result.Total)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(result.Items))
	}
	if result.Page != 2 || result.Limit != 2 {
		t.Fatalf("unexpected paging: %+v", result)
	}

	last, err := e.svc.ListForProfessional(ctx, proUser, transport.ProfessionalReviewsRequest{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Items) != 1 {
		t.Fatalf("expected 1 item on the last page, got %d", len(last.Items))
	}
}

func TestListFilterByRequest(t *testing.T) {
	e := newEnv(t)
	custUser, custProfile := e.addCustomer()
	_, proProfile := e.addProfessional()
	ctx := context.Background()

	firstID := e.seedRequest(custProfile, domain.StatusClosed, &proProfile)
	secondID := e.seedRequest(custProfile, domain.StatusClosed, &proProfile)
	if _, err := e.svc.Submit(ctx, custUser, transport.SubmitReviewRequest{RequestID: firstID, Rating: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.svc.Submit(ctx, custUser, transport.SubmitReviewRequest{RequestID: secondID, Rating: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := e.svc.List(ctx, transport.ListReviewsRequest{RequestID: firstID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || result.Items[0].RequestID != firstID {
		t.Fatalf("expected only the first request's review, got %+v", result)
	}
}
