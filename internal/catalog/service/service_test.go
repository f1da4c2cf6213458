package service

import (
	"context"
	"testing"
	"time"

	"homeservices_backend/internal/catalog/repository"
	"homeservices_backend/internal/catalog/transport"
	"homeservices_backend/internal/events"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeRepo struct {
	services  map[uuid.UUID]repository.Service
	listCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{services: make(map[uuid.UUID]repository.Service)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return repository.Service{}, apperr.NotFound("service not found")
	}
	return s, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.ServiceWithAvailability, error) {
	f.listCalls++
	var out []repository.ServiceWithAvailability
	for _, s := range f.services {
		out = append(out, repository.ServiceWithAvailability{Service: s, HasProfessionals: true})
	}
	return out, nil
}

func (f *fakeRepo) ListTypes(context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var types []string
	for _, s := range f.services {
		if !seen[s.ServiceType] {
			seen[s.ServiceType] = true
			types = append(types, s.ServiceType)
		}
	}
	return types, nil
}

func (f *fakeRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.services[id]
	return ok, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Service, error) {
	for _, s := range f.services {
		if s.Name == params.Name {
			return repository.Service{}, apperr.Conflict("a service with this name already exists")
		}
	}
	s := repository.Service{
		ID:             uuid.New(),
		Name:           params.Name,
		PriceCents:     params.PriceCents,
		TimeReqMinutes: params.TimeReqMinutes,
		Description:    params.Description,
		ServiceType:    params.ServiceType,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.services[s.ID] = s
	return s, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Service, error) {
	s, ok := f.services[params.ID]
	if !ok {
		return repository.Service{}, apperr.NotFound("service not found")
	}
	if params.Name != nil {
		s.Name = *params.Name
	}
	if params.PriceCents != nil {
		s.PriceCents = *params.PriceCents
	}
	f.services[params.ID] = s
	return s, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.services[id]; !ok {
		return apperr.NotFound("service not found")
	}
	delete(f.services, id)
	return nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func newTestService(t *testing.T, repo repository.Repository) (*Service, *events.InMemoryBus) {
	t.Helper()
	log := logger.New("development")
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	bus := events.NewInMemoryBus(log)
	return New(repo, cache.NewRedisWithClient(client, log), bus, log, 5*time.Minute), bus
}

func seedService(repo *fakeRepo, name, serviceType string) repository.Service {
	s := repository.Service{
		ID:             uuid.New(),
		Name:           name,
		PriceCents:     50000,
		TimeReqMinutes: 60,
		ServiceType:    serviceType,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	repo.services[s.ID] = s
	return s
}

func TestListServesSecondCallFromCache(t *testing.T) {
	repo := newFakeRepo()
	seedService(repo, "Tap Repair", "Plumbing")
	seedService(repo, "Fan Installation", "Electrical")
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.List(ctx, transport.ListServicesRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Total != 2 {
		t.Fatalf("expected 2 services, got %d", first.Total)
	}

	second, err := svc.List(ctx, transport.ListServicesRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Total != 2 {
		t.Fatalf("expected 2 services, got %d", second.Total)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected repository hit once, got %d", repo.listCalls)
	}
}

func TestListCacheKeyVariesByFilter(t *testing.T) {
	repo := newFakeRepo()
	seedService(repo, "Tap Repair", "Plumbing")
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.List(ctx, transport.ListServicesRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.List(ctx, transport.ListServicesRequest{ServiceType: "Plumbing"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected distinct filters to miss independently, got %d repository hits", repo.listCalls)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := newTestService(t, newFakeRepo())

	if _, err := svc.GetByID(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePublishesChange(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(t, repo)

	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventCatalogServiceChanged, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		received <- e
		return nil
	}))

	created, err := svc.Create(context.Background(), transport.CreateServiceRequest{
		Name:           "AC Servicing",
		PriceCents:     80000,
		TimeReqMinutes: 90,
		ServiceType:    "Appliance Repair",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case e := <-received:
		changed, ok := e.(events.CatalogServiceChanged)
		if !ok {
			t.Fatalf("unexpected event type %T", e)
		}
		if changed.ServiceID != created.ID || changed.Action != "created" {
			t.Fatalf("unexpected event: %+v", changed)
		}
	case <-time.After(time.Second):
		t.Fatal("expected catalog change event")
	}
}

func TestCreateDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	seedService(repo, "Tap Repair", "Plumbing")
	svc, _ := newTestService(t, repo)

	_, err := svc.Create(context.Background(), transport.CreateServiceRequest{
		Name:           "Tap Repair",
		PriceCents:     10000,
		TimeReqMinutes: 30,
		ServiceType:    "Plumbing",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc, _ := newTestService(t, newFakeRepo())

	if err := svc.Delete(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
