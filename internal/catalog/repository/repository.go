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

const serviceNotFoundMessage = "service not found"

const uniqueViolationCode = "23505"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const serviceColumns = `id, name, price_cents, time_req_minutes, description, service_type, created_at, updated_at`

func scanService(row pgx.Row) (Service, error) {
	var s Service
	err := row.Scan(
		&s.ID, &s.Name, &s.PriceCents, &s.TimeReqMinutes, &s.Description,
		&s.ServiceType, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByID retrieves a service by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	s, err := scanService(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("get service by id: %w", err)
	}

	return s, nil
}

// List retrieves catalog entries with optional name/type/pin filters. The
// availability flag reflects approved, unblocked professionals; when a pin
// is given, both the filter and the flag are restricted to that area.
func (r *Repo) List(ctx context.Context, params ListParams) ([]ServiceWithAvailability, error) {
	query := `
		SELECT ` + serviceColumns + `,
			EXISTS(
				SELECT 1 FROM professionals p
				WHERE p.service_type = s.service_type
					AND p.approved AND NOT p.blocked
					AND ($3::text IS NULL OR p.pin = $3)
			) AS has_professionals
		FROM services s
		WHERE ($1::text IS NULL OR s.name ILIKE $1)
			AND ($2::text IS NULL OR s.service_type ILIKE $2)
			AND ($3::text IS NULL OR EXISTS(
				SELECT 1 FROM professionals p
				WHERE p.service_type = s.service_type
					AND p.approved AND NOT p.blocked
					AND p.pin = $3
			))
		ORDER BY s.name ASC`

	var nameParam, typeParam, pinParam interface{}
	if params.Name != "" {
		nameParam = "%" + params.Name + "%"
	}
	if params.ServiceType != "" {
		typeParam = "%" + params.ServiceType + "%"
	}
	if params.Pin != "" {
		pinParam = params.Pin
	}

	rows, err := r.pool.Query(ctx, query, nameParam, typeParam, pinParam)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var results []ServiceWithAvailability
	for rows.Next() {
		var s ServiceWithAvailability
		err := rows.Scan(
			&s.ID, &s.Name, &s.PriceCents, &s.TimeReqMinutes, &s.Description,
			&s.ServiceType, &s.CreatedAt, &s.UpdatedAt, &s.HasProfessionals,
		)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}

	return results, nil
}

// ListTypes retrieves the distinct service types in the catalog.
func (r *Repo) ListTypes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT service_type FROM services ORDER BY service_type ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan service type: %w", err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service types: %w", err)
	}

	return types, nil
}

// Exists checks if a service exists by ID.
func (r *Repo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM services WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check service exists: %w", err)
	}

	return exists, nil
}

// Create creates a new catalog entry.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Service, error) {
	query := `
		INSERT INTO services (name, price_cents, time_req_minutes, description, service_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + serviceColumns

	s, err := scanService(r.pool.QueryRow(ctx, query,
		params.Name, params.PriceCents, params.TimeReqMinutes, params.Description, params.ServiceType,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Service{}, apperr.Conflict("a service with this name already exists")
		}
		return Service{}, fmt.Errorf("create service: %w", err)
	}

	return s, nil
}

// Update updates an existing catalog entry.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Service, error) {
	query := `
		UPDATE services SET
			name = COALESCE($2, name),
			price_cents = COALESCE($3, price_cents),
			time_req_minutes = COALESCE($4, time_req_minutes),
			description = COALESCE($5, description),
			service_type = COALESCE($6, service_type),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + serviceColumns

	s, err := scanService(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.PriceCents, params.TimeReqMinutes, params.Description, params.ServiceType,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		if isUniqueViolation(err) {
			return Service{}, apperr.Conflict("a service with this name already exists")
		}
		return Service{}, fmt.Errorf("update service: %w", err)
	}

	return s, nil
}

// Delete removes a catalog entry. Requests that referenced it survive and
// are skipped by listing projections.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
