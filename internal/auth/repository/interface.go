package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an authentication account. Every account carries exactly one role.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// RegisterParams contains everything needed to create an account plus its
// role profile in a single transaction.
type RegisterParams struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string

	// Professional profile fields.
	ServiceType string
	Experience  int
	Description string

	// Customer profile fields.
	Address string

	// Shared profile fields.
	Mobile string
	Pin    string
}

// Repository provides persistence for accounts and refresh tokens.
type Repository interface {
	// CreateUserWithProfile inserts the user row and its role profile
	// atomically. A duplicate email yields apperr.Conflict.
	CreateUserWithProfile(ctx context.Context, params RegisterParams) (User, error)
	// CreateAdmin inserts an admin account (no profile row).
	CreateAdmin(ctx context.Context, email, passwordHash string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)

	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}
