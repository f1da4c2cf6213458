package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"homeservices_backend/platform/apperr"
	"homeservices_backend/platform/db"
)

const (
	userNotFoundMessage         = "user not found"
	professionalNotFoundMessage = "professional not found"
	customerNotFoundMessage     = "customer not found"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new identity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetUser retrieves an account projection by ID.
func (r *Repo) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT id, email, role, active, created_at FROM users WHERE id = $1`

	var u User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Role, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

const professionalColumns = `id, user_id, name, service_type, experience, description, mobile, pin, approved, blocked, created_at`

func scanProfessional(row pgx.Row) (Professional, error) {
	var p Professional
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.ServiceType, &p.Experience, &p.Description,
		&p.Mobile, &p.Pin, &p.Approved, &p.Blocked, &p.CreatedAt,
	)
	return p, err
}

// GetProfessionalByUserID retrieves a professional profile by account ID.
func (r *Repo) GetProfessionalByUserID(ctx context.Context, userID uuid.UUID) (Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE user_id = $1`

	p, err := scanProfessional(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Professional{}, apperr.NotFound(professionalNotFoundMessage)
		}
		return Professional{}, fmt.Errorf("get professional by user id: %w", err)
	}
	return p, nil
}

// GetProfessionalByID retrieves a professional profile by its own ID.
func (r *Repo) GetProfessionalByID(ctx context.Context, id uuid.UUID) (Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE id = $1`

	p, err := scanProfessional(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Professional{}, apperr.NotFound(professionalNotFoundMessage)
		}
		return Professional{}, fmt.Errorf("get professional by id: %w", err)
	}
	return p, nil
}

const customerColumns = `id, user_id, name, address, mobile, pin, blocked, created_at`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Address, &c.Mobile, &c.Pin, &c.Blocked, &c.CreatedAt)
	return c, err
}

// GetCustomerByUserID retrieves a customer profile by account ID.
func (r *Repo) GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, apperr.NotFound(customerNotFoundMessage)
		}
		return Customer{}, fmt.Errorf("get customer by user id: %w", err)
	}
	return c, nil
}

// GetCustomerByID retrieves a customer profile by its own ID.
func (r *Repo) GetCustomerByID(ctx context.Context, id uuid.UUID) (Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, apperr.NotFound(customerNotFoundMessage)
		}
		return Customer{}, fmt.Errorf("get customer by id: %w", err)
	}
	return c, nil
}

// ListAccounts retrieves accounts with their role profile, filtered for the
// admin user screen. All filters are optional and combined with AND.
func (r *Repo) ListAccounts(ctx context.Context, params ListAccountsParams) ([]AccountRow, error) {
	query := `
		SELECT
			u.id, u.email, u.role, u.active, u.created_at,
			p.id, p.user_id, p.name, p.service_type, p.experience, p.description,
			p.mobile, p.pin, p.approved, p.blocked, p.created_at,
			c.id, c.user_id, c.name, c.address, c.mobile, c.pin, c.blocked, c.created_at
		FROM users u
		LEFT JOIN professionals p ON p.user_id = u.id
		LEFT JOIN customers c ON c.user_id = u.id
		WHERE ($1::text IS NULL OR u.role = $1)
			AND ($2::text IS NULL OR p.name ILIKE $2 OR c.name ILIKE $2)
			AND ($3::text IS NULL OR u.email ILIKE $3)
			AND ($4::text IS NULL OR p.service_type ILIKE $4)
			AND (
				$5::text IS NULL
				OR ($5 = 'active' AND u.active)
				OR ($5 = 'blocked' AND NOT u.active)
				OR ($5 = 'pending' AND u.role = 'professional' AND NOT p.approved AND NOT p.blocked)
			)
		ORDER BY u.created_at DESC`

	var roleParam, nameParam, emailParam, serviceTypeParam, statusParam interface{}
	if params.Role != "" {
		roleParam = string(params.Role)
	}
	if params.Name != "" {
		nameParam = "%" + params.Name + "%"
	}
	if params.Email != "" {
		emailParam = "%" + params.Email + "%"
	}
	if params.ServiceType != "" {
		serviceTypeParam = "%" + params.ServiceType + "%"
	}
	if params.Status != "" {
		statusParam = params.Status
	}

	rows, err := r.pool.Query(ctx, query, roleParam, nameParam, emailParam, serviceTypeParam, statusParam)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var results []AccountRow
	for rows.Next() {
		var row AccountRow
		var p Professional
		var c Customer
		var pID, pUserID *uuid.UUID
		var pName, pServiceType, pDescription, pMobile, pPin *string
		var pExperience *int
		var pApproved, pBlocked *bool
		var pCreatedAt *time.Time
		var cID, cUserID *uuid.UUID
		var cName, cAddress, cMobile, cPin *string
		var cBlocked *bool
		var cCreatedAt *time.Time

		err := rows.Scan(
			&row.User.ID, &row.User.Email, &row.User.Role, &row.User.Active, &row.User.CreatedAt,
			&pID, &pUserID, &pName, &pServiceType, &pExperience, &pDescription,
			&pMobile, &pPin, &pApproved, &pBlocked, &pCreatedAt,
			&cID, &cUserID, &cName, &cAddress, &cMobile, &cPin, &cBlocked, &cCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}

		if pID != nil {
			p = Professional{
				ID: *pID, UserID: *pUserID, Name: *pName, ServiceType: *pServiceType,
				Experience: *pExperience, Description: *pDescription, Mobile: *pMobile,
				Pin: *pPin, Approved: *pApproved, Blocked: *pBlocked, CreatedAt: *pCreatedAt,
			}
			row.Professional = &p
		}
		if cID != nil {
			c = Customer{
				ID: *cID, UserID: *cUserID, Name: *cName, Address: *cAddress,
				Mobile: *cMobile, Pin: *cPin, Blocked: *cBlocked, CreatedAt: *cCreatedAt,
			}
			row.Customer = &c
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return results, nil
}

// GetProfessionalStats aggregates request and review figures for one
// professional. Unrated professionals report a zero average.
func (r *Repo) GetProfessionalStats(ctx context.Context, professionalID uuid.UUID) (ProfessionalStats, error) {
	query := `
		SELECT
			COUNT(sr.id),
			COUNT(sr.id) FILTER (WHERE sr.status = 'closed'),
			COALESCE(AVG(rv.rating), 0),
			COUNT(rv.id)
		FROM service_requests sr
		LEFT JOIN reviews rv ON rv.service_request_id = sr.id
		WHERE sr.professional_id = $1`

	var stats ProfessionalStats
	err := r.pool.QueryRow(ctx, query, professionalID).Scan(
		&stats.TotalRequests, &stats.CompletedRequests, &stats.AverageRating, &stats.ReviewCount,
	)
	if err != nil {
		return ProfessionalStats{}, fmt.Errorf("get professional stats: %w", err)
	}

	return stats, nil
}

// RecentRequestsForProfessional returns the professional's newest requests
// with the service name denormalized.
func (r *Repo) RecentRequestsForProfessional(ctx context.Context, professionalID uuid.UUID, limit int) ([]RequestSummary, error) {
	query := `
		SELECT sr.id, s.name, sr.status, sr.req_date
		FROM service_requests sr
		JOIN services s ON s.id = sr.service_id
		WHERE sr.professional_id = $1
		ORDER BY sr.req_date DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, professionalID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent requests for professional: %w", err)
	}
	defer rows.Close()

	var results []RequestSummary
	for rows.Next() {
		var rs RequestSummary
		if err := rows.Scan(&rs.ID, &rs.ServiceName, &rs.Status, &rs.RequestedAt); err != nil {
			return nil, fmt.Errorf("scan request summary: %w", err)
		}
		results = append(results, rs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request summaries: %w", err)
	}

	return results, nil
}

// SetProfessionalApproved flips the approval flag.
func (r *Repo) SetProfessionalApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE professionals SET approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return fmt.Errorf("set professional approved: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(professionalNotFoundMessage)
	}
	return nil
}

// SetProfessionalBlocked flips the blocked flag and syncs users.active in a
// single transaction so the two can never disagree.
func (r *Repo) SetProfessionalBlocked(ctx context.Context, id uuid.UUID, blocked bool) (Professional, error) {
	var p Professional

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE professionals SET blocked = $2
			WHERE id = $1
			RETURNING ` + professionalColumns

		var err error
		p, err = scanProfessional(tx.QueryRow(ctx, query, id, blocked))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(professionalNotFoundMessage)
			}
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET active = $2, updated_at = now() WHERE id = $1`, p.UserID, !blocked)
		return err
	})
	if err != nil {
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) {
			return Professional{}, domainErr
		}
		return Professional{}, fmt.Errorf("set professional blocked: %w", err)
	}

	return p, nil
}

// SetCustomerBlocked follows the same transactional rule as professionals.
func (r *Repo) SetCustomerBlocked(ctx context.Context, id uuid.UUID, blocked bool) (Customer, error) {
	var c Customer

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE customers SET blocked = $2
			WHERE id = $1
			RETURNING ` + customerColumns

		var err error
		c, err = scanCustomer(tx.QueryRow(ctx, query, id, blocked))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(customerNotFoundMessage)
			}
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET active = $2, updated_at = now() WHERE id = $1`, c.UserID, !blocked)
		return err
	})
	if err != nil {
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) {
			return Customer{}, domainErr
		}
		return Customer{}, fmt.Errorf("set customer blocked: %w", err)
	}

	return c, nil
}

// UpdateProfessional applies the self-editable profile fields.
func (r *Repo) UpdateProfessional(ctx context.Context, params UpdateProfessionalParams) (Professional, error) {
	query := `
		UPDATE professionals SET
			name = COALESCE($2, name),
			experience = COALESCE($3, experience),
			description = COALESCE($4, description),
			mobile = COALESCE($5, mobile),
			pin = COALESCE($6, pin)
		WHERE user_id = $1
		RETURNING ` + professionalColumns

	p, err := scanProfessional(r.pool.QueryRow(ctx, query,
		params.UserID, params.Name, params.Experience, params.Description, params.Mobile, params.Pin,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Professional{}, apperr.NotFound(professionalNotFoundMessage)
		}
		return Professional{}, fmt.Errorf("update professional: %w", err)
	}

	return p, nil
}
