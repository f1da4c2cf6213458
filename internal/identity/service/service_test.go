package service

import (
	"context"
	"testing"

	"homeservices_backend/internal/events"
	"homeservices_backend/internal/identity/repository"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	users         map[uuid.UUID]repository.User
	professionals map[uuid.UUID]repository.Professional // by user ID
	customers     map[uuid.UUID]repository.Customer     // by user ID
	moderated     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:         make(map[uuid.UUID]repository.User),
		professionals: make(map[uuid.UUID]repository.Professional),
		customers:     make(map[uuid.UUID]repository.Customer),
	}
}

func (f *fakeRepo) GetUser(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeRepo) GetProfessionalByUserID(_ context.Context, userID uuid.UUID) (repository.Professional, error) {
	p, ok := f.professionals[userID]
	if !ok {
		return repository.Professional{}, apperr.NotFound("professional not found")
	}
	return p, nil
}

func (f *fakeRepo) GetCustomerByUserID(_ context.Context, userID uuid.UUID) (repository.Customer, error) {
	c, ok := f.customers[userID]
	if !ok {
		return repository.Customer{}, apperr.NotFound("customer not found")
	}
	return c, nil
}

func (f *fakeRepo) GetProfessionalByID(_ context.Context, id uuid.UUID) (repository.Professional, error) {
	for _, p := range f.professionals {
		if p.ID == id {
			return p, nil
		}
	}
	return repository.Professional{}, apperr.NotFound("professional not found")
}

func (f *fakeRepo) GetCustomerByID(_ context.Context, id uuid.UUID) (repository.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return repository.Customer{}, apperr.NotFound("customer not found")
}

func (f *fakeRepo) ListAccounts(context.Context, repository.ListAccountsParams) ([]repository.AccountRow, error) {
	return nil, nil
}

func (f *fakeRepo) GetProfessionalStats(context.Context, uuid.UUID) (repository.ProfessionalStats, error) {
	return repository.ProfessionalStats{}, nil
}

func (f *fakeRepo) RecentRequestsForProfessional(context.Context, uuid.UUID, int) ([]repository.RequestSummary, error) {
	return nil, nil
}

func (f *fakeRepo) SetProfessionalApproved(_ context.Context, id uuid.UUID, approved bool) error {
	for userID, p := range f.professionals {
		if p.ID == id {
			p.Approved = approved
			f.professionals[userID] = p
			f.moderated = append(f.moderated, "approved")
			return nil
		}
	}
	return apperr.NotFound("professional not found")
}

func (f *fakeRepo) SetProfessionalBlocked(_ context.Context, id uuid.UUID, blocked bool) (repository.Professional, error) {
	for userID, p := range f.professionals {
		if p.ID == id {
			p.Blocked = blocked
			f.professionals[userID] = p
			u := f.users[userID]
			u.Active = !blocked
			f.users[userID] = u
			return p, nil
		}
	}
	return repository.Professional{}, apperr.NotFound("professional not found")
}

func (f *fakeRepo) SetCustomerBlocked(_ context.Context, id uuid.UUID, blocked bool) (repository.Customer, error) {
	for userID, c := range f.customers {
		if c.ID == id {
			c.Blocked = blocked
			f.customers[userID] = c
			u := f.users[userID]
			u.Active = !blocked
			f.users[userID] = u
			return c, nil
		}
	}
	return repository.Customer{}, apperr.NotFound("customer not found")
}

func (f *fakeRepo) UpdateProfessional(_ context.Context, params repository.UpdateProfessionalParams) (repository.Professional, error) {
	p, ok := f.professionals[params.UserID]
	if !ok {
		return repository.Professional{}, apperr.NotFound("professional not found")
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	f.professionals[params.UserID] = p
	return p, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func newTestService(repo repository.Repository) *Service {
	return New(repo, events.NewInMemoryBus(logger.New("development")), logger.New("development"))
}

func (f *fakeRepo) addProfessional(active bool) repository.User {
	user := repository.User{ID: uuid.New(), Email: "pro@example.com", Role: repository.RoleProfessional, Active: active}
	f.users[user.ID] = user
	f.professionals[user.ID] = repository.Professional{ID: uuid.New(), UserID: user.ID, Name: "Pat", ServiceType: "Plumbing", Approved: true}
	return user
}

func (f *fakeRepo) addCustomer(active bool) repository.User {
	user := repository.User{ID: uuid.New(), Email: "cust@example.com", Role: repository.RoleCustomer, Active: active}
	f.users[user.ID] = user
	f.customers[user.ID] = repository.Customer{ID: uuid.New(), UserID: user.ID, Name: "Cam", Address: "12 Main St", Pin: "560001"}
	return user
}

func TestResolve(t *testing.T) {
	repo := newFakeRepo()
	admin := repository.User{ID: uuid.New(), Email: "admin@example.com", Role: repository.RoleAdmin, Active: true}
	repo.users[admin.ID] = admin
	pro := repo.addProfessional(true)
	cust := repo.addCustomer(true)
	inactive := repo.addProfessional(false)
	orphan := repository.User{ID: uuid.New(), Email: "orphan@example.com", Role: repository.RoleCustomer, Active: true}
	repo.users[orphan.ID] = orphan

	svc := newTestService(repo)
	ctx := context.Background()

	t.Run("admin has no profile", func(t *testing.T) {
		subject, err := svc.Resolve(ctx, admin.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !subject.IsAdmin() || subject.Professional != nil || subject.Customer != nil {
			t.Fatalf("unexpected subject: %+v", subject)
		}
	})

	t.Run("professional carries profile", func(t *testing.T) {
		subject, err := svc.Resolve(ctx, pro.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if subject.Role != repository.RoleProfessional || subject.Professional == nil {
			t.Fatalf("unexpected subject: %+v", subject)
		}
	})

	t.Run("customer carries profile", func(t *testing.T) {
		subject, err := svc.Resolve(ctx, cust.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if subject.Role != repository.RoleCustomer || subject.Customer == nil {
			t.Fatalf("unexpected subject: %+v", subject)
		}
	})

	t.Run("deactivated account is forbidden", func(t *testing.T) {
		if _, err := svc.Resolve(ctx, inactive.ID); !apperr.Is(err, apperr.KindForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("missing profile is not found", func(t *testing.T) {
		if _, err := svc.Resolve(ctx, orphan.ID); !apperr.Is(err, apperr.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		if _, err := svc.Resolve(ctx, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestModerateProfessionalBlockSyncsActive(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addProfessional(true)
	proID := repo.professionals[user.ID].ID
	svc := newTestService(repo)

	result, err := svc.ModerateProfessional(context.Background(), proID, "block")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Blocked {
		t.Fatal("expected profile blocked")
	}
	if repo.users[user.ID].Active {
		t.Fatal("expected account deactivated alongside block")
	}

	result, err = svc.ModerateProfessional(context.Background(), proID, "unblock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Blocked {
		t.Fatal("expected profile unblocked")
	}
	if !repo.users[user.ID].Active {
		t.Fatal("expected account reactivated alongside unblock")
	}
}

func TestModerateCustomerUnknownAction(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addCustomer(true)
	custID := repo.customers[user.ID].ID
	svc := newTestService(repo)

	if _, err := svc.ModerateCustomer(context.Background(), custID, "promote"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
