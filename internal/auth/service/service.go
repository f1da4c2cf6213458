package service

import (
	"context"
	"strings"
	"time"

	"homeservices_backend/internal/auth/password"
	"homeservices_backend/internal/auth/repository"
	"homeservices_backend/internal/auth/token"
	"homeservices_backend/internal/auth/transport"
	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/logger"
	"homeservices_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType = "access"

	msgInvalidCredentials = "invalid credentials"
	msgAccountDeactivated = "account deactivated"
)

// Service provides registration and token issuance.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Register creates an account plus its role profile and signs the caller in.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.AuthResponse, error) {
	if err := validateProfileFields(req); err != nil {
		return transport.AuthResponse{}, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "could not process registration", err)
	}

	user, err := s.repo.CreateUserWithProfile(ctx, repository.RegisterParams{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		Name:         req.Name,
		ServiceType:  req.ServiceType,
		Experience:   req.Experience,
		Description:  req.Description,
		Address:      req.Address,
		Mobile:       phone.NormalizeE164(req.Mobile),
		Pin:          req.Pin,
	})
	if err != nil {
		s.log.AuthEvent("register", req.Email, false, err.Error())
		return transport.AuthResponse{}, err
	}

	s.log.AuthEvent("register", user.Email, true, "")
	return s.issueTokens(ctx, user)
}

// Login verifies credentials and issues a token pair. Deactivated accounts
// cannot sign in.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		s.log.AuthEvent("login", req.Email, false, "unknown email")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login", req.Email, false, "bad password")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !user.Active {
		s.log.AuthEvent("login", req.Email, false, "deactivated")
		return transport.AuthResponse{}, apperr.Unauthorized(msgAccountDeactivated)
	}

	s.log.AuthEvent("login", user.Email, true, "")
	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token. An account deactivated since issue is
// rejected, which is how blocking cuts off existing sessions.
func (s *Service) Refresh(ctx context.Context, rawToken string) (transport.AuthResponse, error) {
	hash := token.HashSHA256(rawToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.AuthResponse{}, apperr.Unauthorized("refresh token expired")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("invalid refresh token")
	}
	if !user.Active {
		_ = s.repo.RevokeAllRefreshTokens(ctx, userID)
		return transport.AuthResponse{}, apperr.Unauthorized(msgAccountDeactivated)
	}

	_ = s.repo.RevokeRefreshToken(ctx, hash)
	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(rawToken))
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (transport.AuthResponse, error) {
	accessToken, err := s.signJWT(user.ID, user.Role, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "could not issue tokens", err)
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "could not issue tokens", err)
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, hash, expiresAt); err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "could not issue tokens", err)
	}

	return transport.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Role:         user.Role,
	}, nil
}

func (s *Service) signJWT(userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

// validateProfileFields enforces the per-role required profile fields that
// struct tags cannot express.
func validateProfileFields(req transport.RegisterRequest) error {
	switch req.Role {
	case "professional":
		if strings.TrimSpace(req.ServiceType) == "" {
			return apperr.Validation("serviceType is required for professionals")
		}
	case "customer":
		if strings.TrimSpace(req.Address) == "" {
			return apperr.Validation("address is required for customers")
		}
		if strings.TrimSpace(req.Pin) == "" {
			return apperr.Validation("pin is required for customers")
		}
	}
	return nil
}
