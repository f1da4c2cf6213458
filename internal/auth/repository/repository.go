package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/db"
)

const uniqueViolationCode = "23505"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateUserWithProfile inserts the account and its role profile in one
// transaction so a half-registered account can never exist.
func (r *Repo) CreateUserWithProfile(ctx context.Context, params RegisterParams) (User, error) {
	var user User

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO users (email, password_hash, role)
			VALUES ($1, $2, $3)
			RETURNING id, email, password_hash, role, active, created_at`

		err := tx.QueryRow(ctx, query, params.Email, params.PasswordHash, params.Role).Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.Active, &user.CreatedAt,
		)
		if err != nil {
			return err
		}

		switch params.Role {
		case "professional":
			_, err = tx.Exec(ctx, `
				INSERT INTO professionals (user_id, name, service_type, experience, description, mobile, pin)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				user.ID, params.Name, params.ServiceType, params.Experience, params.Description, params.Mobile, params.Pin,
			)
		case "customer":
			_, err = tx.Exec(ctx, `
				INSERT INTO customers (user_id, name, address, mobile, pin)
				VALUES ($1, $2, $3, $4, $5)`,
				user.ID, params.Name, params.Address, params.Mobile, params.Pin,
			)
		default:
			return apperr.Validation("unsupported role")
		}
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, apperr.Conflict("email already registered")
		}
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) {
			return User{}, domainErr
		}
		return User{}, fmt.Errorf("create user with profile: %w", err)
	}

	return user, nil
}

// CreateAdmin inserts an admin account without a profile row.
func (r *Repo) CreateAdmin(ctx context.Context, email, passwordHash string) (User, error) {
	query := `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, 'admin')
		RETURNING id, email, password_hash, role, active, created_at`

	var user User
	err := r.pool.QueryRow(ctx, query, email, passwordHash).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.Active, &user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, apperr.Conflict("email already registered")
		}
		return User{}, fmt.Errorf("create admin: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves an account by email.
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `
		SELECT id, email, password_hash, role, active, created_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.Active, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves an account by ID.
func (r *Repo) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `
		SELECT id, email, password_hash, role, active, created_at
		FROM users
		WHERE id = $1`

	var user User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.Active, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// CreateRefreshToken stores a hashed refresh token.
func (r *Repo) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, tokenHash, userID, expiresAt); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken looks up a refresh token by hash.
func (r *Repo) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	query := `SELECT user_id, expires_at FROM refresh_tokens WHERE token_hash = $1`

	var userID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.UUID{}, time.Time{}, apperr.Unauthorized("invalid refresh token")
		}
		return uuid.UUID{}, time.Time{}, fmt.Errorf("get refresh token: %w", err)
	}

	return userID, expiresAt, nil
}

// RevokeRefreshToken deletes a single refresh token.
func (r *Repo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllRefreshTokens deletes every refresh token for a user.
func (r *Repo) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
