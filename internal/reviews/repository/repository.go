package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"homeservices_backend/platform/apperr"
)

const uniqueViolationCode = "23505"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const reviewColumns = `id, service_request_id, customer_id, rating, comment, created_at`

// namedSelect joins each review with the customer and, via the request,
// the service it rated.
const namedSelect = `
	SELECT rv.id, rv.service_request_id, rv.customer_id, rv.rating, rv.comment, rv.created_at,
		c.name, s.name
	FROM reviews rv
	JOIN customers c ON c.id = rv.customer_id
	JOIN service_requests r ON r.id = rv.service_request_id
	JOIN services s ON s.id = r.service_id`

func scanNamed(row pgx.Row) (ReviewWithNames, error) {
	var rv ReviewWithNames
	err := row.Scan(
		&rv.ID, &rv.ServiceRequestID, &rv.CustomerID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
		&rv.CustomerName, &rv.ServiceName,
	)
	return rv, err
}

// Create stores a review. A second review for the same (request, customer)
// pair trips the unique constraint.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Review, error) {
	query := `
		INSERT INTO reviews (service_request_id, customer_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + reviewColumns

	var rv Review
	err := r.pool.QueryRow(ctx, query,
		params.ServiceRequestID, params.CustomerID, params.Rating, params.Comment,
	).Scan(&rv.ID, &rv.ServiceRequestID, &rv.CustomerID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return Review{}, apperr.Conflict("request already reviewed")
		}
		return Review{}, fmt.Errorf("create review: %w", err)
	}

	return rv, nil
}

// List retrieves reviews, optionally scoped to one request, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]ReviewWithNames, error) {
	query := namedSelect + `
	WHERE ($1::uuid IS NULL OR rv.service_request_id = $1)
	ORDER BY rv.created_at DESC`

	rows, err := r.pool.Query(ctx, query, params.RequestID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	return collectNamed(rows)
}

// ListForProfessional retrieves one page of reviews across the
// professional's assigned requests, newest first.
func (r *Repo) ListForProfessional(ctx context.Context, page ProfessionalPage) ([]ReviewWithNames, error) {
	query := namedSelect + `
	WHERE r.professional_id = $1
	ORDER BY rv.created_at DESC
	LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, page.ProfessionalID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list professional reviews: %w", err)
	}
	defer rows.Close()

	return collectNamed(rows)
}

// CountForProfessional counts reviews across the professional's requests.
func (r *Repo) CountForProfessional(ctx context.Context, professionalID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reviews rv
		JOIN service_requests r ON r.id = rv.service_request_id
		WHERE r.professional_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, professionalID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count professional reviews: %w", err)
	}

	return count, nil
}

func collectNamed(rows pgx.Rows) ([]ReviewWithNames, error) {
	var results []ReviewWithNames
	for rows.Next() {
		rv, err := scanNamed(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		results = append(results, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return results, nil
}
