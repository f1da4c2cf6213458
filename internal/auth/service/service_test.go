package service

import (
	"context"
	"testing"
	"time"

	"homeservices_backend/internal/auth/password"
	"homeservices_backend/internal/auth/repository"
	"homeservices_backend/internal/auth/transport"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeConfig struct{}

func (fakeConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (fakeConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (fakeConfig) GetRefreshTokenTTL() time.Duration { return time.Hour }

type fakeRepo struct {
	usersByEmail map[string]repository.User
	usersByID    map[uuid.UUID]repository.User
	tokens       map[string]tokenRecord
	registered   []repository.RegisterParams
}

type tokenRecord struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		usersByEmail: make(map[string]repository.User),
		usersByID:    make(map[uuid.UUID]repository.User),
		tokens:       make(map[string]tokenRecord),
	}
}

func (f *fakeRepo) addUser(email, plainPassword, role string, active bool) repository.User {
	hash, _ := password.Hash(plainPassword)
	user := repository.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
		CreatedAt:    time.Now(),
	}
	f.usersByEmail[email] = user
	f.usersByID[user.ID] = user
	return user
}

func (f *fakeRepo) CreateUserWithProfile(_ context.Context, params repository.RegisterParams) (repository.User, error) {
	if _, exists := f.usersByEmail[params.Email]; exists {
		return repository.User{}, apperr.Conflict("email already registered")
	}
	f.registered = append(f.registered, params)
	user := repository.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		Active:       true,
	}
	f.usersByEmail[user.Email] = user
	f.usersByID[user.ID] = user
	return user, nil
}

func (f *fakeRepo) CreateAdmin(_ context.Context, email, passwordHash string) (repository.User, error) {
	user := repository.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: "admin", Active: true}
	f.usersByEmail[email] = user
	f.usersByID[user.ID] = user
	return user, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	user, ok := f.usersByID[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	f.tokens[tokenHash] = tokenRecord{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeRepo) GetRefreshToken(_ context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	rec, ok := f.tokens[tokenHash]
	if !ok {
		return uuid.UUID{}, time.Time{}, apperr.Unauthorized("invalid refresh token")
	}
	return rec.userID, rec.expiresAt, nil
}

func (f *fakeRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	delete(f.tokens, tokenHash)
	return nil
}

func (f *fakeRepo) RevokeAllRefreshTokens(_ context.Context, userID uuid.UUID) error {
	for hash, rec := range f.tokens {
		if rec.userID == userID {
			delete(f.tokens, hash)
		}
	}
	return nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func newTestService(repo repository.Repository) *Service {
	return New(repo, fakeConfig{}, logger.New("development"))
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("active@example.com", "correct-horse", "customer", true)
	repo.addUser("blocked@example.com", "correct-horse", "professional", false)
	svc := newTestService(repo)

	tests := []struct {
		name     string
		email    string
		password string
		wantKind apperr.Kind
	}{
		{"success", "active@example.com", "correct-horse", apperr.KindUnknown},
		{"wrong password", "active@example.com", "wrong", apperr.KindUnauthorized},
		{"unknown email", "nobody@example.com", "correct-horse", apperr.KindUnauthorized},
		{"deactivated account", "blocked@example.com", "correct-horse", apperr.KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(context.Background(), transport.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			if tt.wantKind == apperr.KindUnknown {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.AccessToken == "" || result.RefreshToken == "" {
					t.Fatal("expected token pair")
				}
				if result.Role != "customer" {
					t.Fatalf("unexpected role %q", result.Role)
				}
				return
			}
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("expected kind %v, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestRegisterProfileValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      transport.RegisterRequest
		wantKind apperr.Kind
	}{
		{
			"professional without service type",
			transport.RegisterRequest{Email: "p@example.com", Password: "longenough", Role: "professional", Name: "Pat"},
			apperr.KindValidation,
		},
		{
			"customer without address",
			transport.RegisterRequest{Email: "c@example.com", Password: "longenough", Role: "customer", Name: "Cam", Pin: "560001"},
			apperr.KindValidation,
		},
		{
			"customer without pin",
			transport.RegisterRequest{Email: "c@example.com", Password: "longenough", Role: "customer", Name: "Cam", Address: "12 Main St"},
			apperr.KindValidation,
		},
		{
			"valid professional",
			transport.RegisterRequest{Email: "p@example.com", Password: "longenough", Role: "professional", Name: "Pat", ServiceType: "Plumbing"},
			apperr.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeRepo())
			result, err := svc.Register(context.Background(), tt.req)
			if tt.wantKind == apperr.KindUnknown {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.AccessToken == "" {
					t.Fatal("expected access token")
				}
				return
			}
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("expected kind %v, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestRegisterNormalizesMobile(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "c@example.com",
		Password: "longenough",
		Role:     "customer",
		Name:     "Cam",
		Address:  "12 Main St",
		Pin:      "560001",
		Mobile:   "98765 43210",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.registered) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(repo.registered))
	}
	if got := repo.registered[0].Mobile; got != "+919876543210" {
		t.Fatalf("expected E.164 mobile, got %q", got)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("taken@example.com", "whatever12", "customer", true)
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "taken@example.com",
		Password: "longenough",
		Role:     "customer",
		Name:     "Cam",
		Address:  "12 Main St",
		Pin:      "560001",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser("active@example.com", "correct-horse", "customer", true)
	svc := newTestService(repo)

	pair, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "active@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
	if rotated.UserID != user.ID {
		t.Fatal("refresh returned wrong user")
	}

	// The consumed token must be dead.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized on reuse, got %v", err)
	}
}

func TestRefreshDeactivatedUser(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser("soon-blocked@example.com", "correct-horse", "professional", true)
	svc := newTestService(repo)

	pair, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "soon-blocked@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Deactivate after issue; the next refresh must be rejected.
	blocked := repo.usersByID[user.ID]
	blocked.Active = false
	repo.usersByID[user.ID] = blocked
	repo.usersByEmail[blocked.Email] = blocked

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(repo.tokens) != 0 {
		t.Fatal("expected all refresh tokens revoked for deactivated user")
	}
}
