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
)

const requestNotFoundMessage = "service request not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new request repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const requestColumns = `id, service_id, customer_id, professional_id, req_date, comp_date, status, remarks`

// detailSelect joins the request with its service and customer. The inner
// joins drop rows whose service or customer no longer exists.
const detailSelect = `
	SELECT r.id, r.service_id, r.customer_id, r.professional_id,
		r.req_date, r.comp_date, r.status, r.remarks,
		s.name, s.service_type, s.price_cents,
		c.name, c.address, c.pin,
		p.name,
		EXISTS(SELECT 1 FROM reviews rv WHERE rv.service_request_id = r.id) AS has_review
	FROM service_requests r
	JOIN services s ON s.id = r.service_id
	JOIN customers c ON c.id = r.customer_id
	LEFT JOIN professionals p ON p.id = r.professional_id`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(
		&r.ID, &r.ServiceID, &r.CustomerID, &r.ProfessionalID,
		&r.ReqDate, &r.CompDate, &r.Status, &r.Remarks,
	)
	return r, err
}

func scanDetail(row pgx.Row) (Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.ServiceID, &d.CustomerID, &d.ProfessionalID,
		&d.ReqDate, &d.CompDate, &d.Status, &d.Remarks,
		&d.ServiceName, &d.ServiceType, &d.ServicePriceCents,
		&d.CustomerName, &d.CustomerAddress, &d.CustomerPin,
		&d.ProfessionalName, &d.HasReview,
	)
	return d, err
}

// Get retrieves a bare request row by ID.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Request, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, apperr.NotFound(requestNotFoundMessage)
		}
		return Request{}, fmt.Errorf("get request: %w", err)
	}

	return req, nil
}

// GetDetail retrieves the denormalized projection for a single request.
func (r *Repo) GetDetail(ctx context.Context, id uuid.UUID) (Detail, error) {
	query := detailSelect + ` WHERE r.id = $1`

	d, err := scanDetail(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, apperr.NotFound(requestNotFoundMessage)
		}
		return Detail{}, fmt.Errorf("get request detail: %w", err)
	}

	return d, nil
}

// List retrieves request projections matching the filter, newest first.
// A row that fails to scan is skipped rather than failing the listing.
func (r *Repo) List(ctx context.Context, filter ListFilter) ([]Detail, error) {
	query := detailSelect + `
	WHERE ($1::text IS NULL OR r.status = $1)
		AND ($2::timestamptz IS NULL OR r.req_date >= $2)
		AND ($3::timestamptz IS NULL OR r.req_date <= $3)
		AND ($4::text IS NULL OR s.name ILIKE $4 OR c.name ILIKE $4 OR r.remarks ILIKE $4)
		AND (
			($5::uuid IS NULL AND $6::uuid IS NULL)
			OR ($5::uuid IS NOT NULL AND r.customer_id = $5)
			OR ($6::uuid IS NOT NULL AND (
				r.professional_id = $6
				OR ($7 AND r.status = 'requested' AND r.professional_id IS NULL)
			))
		)
	ORDER BY r.req_date DESC`

	var statusParam, fromParam, toParam, searchParam interface{}
	if filter.Status != "" {
		statusParam = filter.Status
	}
	if filter.From != nil {
		fromParam = *filter.From
	}
	if filter.To != nil {
		toParam = *filter.To
	}
	if filter.Search != "" {
		searchParam = "%" + filter.Search + "%"
	}

	rows, err := r.pool.Query(ctx, query,
		statusParam, fromParam, toParam, searchParam,
		filter.CustomerID, filter.ProfessionalID, filter.IncludeOpenPool,
	)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var results []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			continue
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return results, nil
}

// ScheduleForProfessional retrieves the professional's active assignments
// scheduled within the given day.
func (r *Repo) ScheduleForProfessional(ctx context.Context, professionalID uuid.UUID, day time.Time) ([]Detail, error) {
	query := detailSelect + `
	WHERE r.professional_id = $1
		AND r.req_date >= $2
		AND r.req_date < $2::timestamptz + interval '1 day'
		AND r.status IN ('assigned', 'ready_to_close')
	ORDER BY r.req_date ASC`

	rows, err := r.pool.Query(ctx, query, professionalID, day)
	if err != nil {
		return nil, fmt.Errorf("schedule for professional: %w", err)
	}
	defer rows.Close()

	var results []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			continue
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule: %w", err)
	}

	return results, nil
}

// Create opens a new request in the requested state.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Request, error) {
	query := `
		INSERT INTO service_requests (service_id, customer_id, req_date, status, remarks)
		VALUES ($1, $2, COALESCE($3, now()), 'requested', $4)
		RETURNING ` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query,
		params.ServiceID, params.CustomerID, params.ReqDate, params.Remarks,
	))
	if err != nil {
		return Request{}, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

// Accept assigns the request to the professional. The status and
// assignment preconditions ride in the WHERE clause so concurrent accepts
// resolve in the database; the loser sees zero rows.
func (r *Repo) Accept(ctx context.Context, id, professionalID uuid.UUID) error {
	query := `
		UPDATE service_requests
		SET status = 'assigned', professional_id = $2
		WHERE id = $1 AND status = 'requested' AND professional_id IS NULL`

	result, err := r.pool.Exec(ctx, query, id, professionalID)
	if err != nil {
		return fmt.Errorf("accept request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Conflict("request is no longer available")
	}

	return nil
}

// Complete marks the professional's work done.
func (r *Repo) Complete(ctx context.Context, id, professionalID uuid.UUID, remarks *string) error {
	query := `
		UPDATE service_requests
		SET status = 'ready_to_close', remarks = COALESCE($3, remarks)
		WHERE id = $1 AND professional_id = $2 AND status = 'assigned'`

	result, err := r.pool.Exec(ctx, query, id, professionalID, remarks)
	if err != nil {
		return fmt.Errorf("complete request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Conflict("request is not awaiting completion")
	}

	return nil
}

// Close finalizes the request and stamps the completion date.
func (r *Repo) Close(ctx context.Context, id, customerID uuid.UUID) error {
	query := `
		UPDATE service_requests
		SET status = 'closed', comp_date = now()
		WHERE id = $1 AND customer_id = $2 AND status IN ('assigned', 'ready_to_close')`

	result, err := r.pool.Exec(ctx, query, id, customerID)
	if err != nil {
		return fmt.Errorf("close request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Conflict("request cannot be closed")
	}

	return nil
}

// Update applies role-scoped field edits. When ExpectedStatus is set and
// the row moved on in the meantime, the update misses and reports Conflict.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Request, error) {
	query := `
		UPDATE service_requests SET
			remarks = COALESCE($2, remarks),
			req_date = COALESCE($3, req_date),
			status = COALESCE($4, status),
			professional_id = COALESCE($5, professional_id),
			comp_date = CASE WHEN $6 THEN now() ELSE comp_date END
		WHERE id = $1 AND ($7::text IS NULL OR status = $7)
		RETURNING ` + requestColumns

	var statusParam, expectedParam interface{}
	if params.Status != nil {
		statusParam = string(*params.Status)
	}
	if params.ExpectedStatus != nil {
		expectedParam = string(*params.ExpectedStatus)
	}

	req, err := scanRequest(r.pool.QueryRow(ctx, query,
		params.ID, params.Remarks, params.ReqDate, statusParam,
		params.ProfessionalID, params.SetCompDate, expectedParam,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, apperr.Conflict("request state changed")
		}
		return Request{}, fmt.Errorf("update request: %w", err)
	}

	return req, nil
}

// Delete withdraws a request. Only open, unassigned requests can go.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM service_requests WHERE id = $1 AND status = 'requested'`, id)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM service_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check request exists: %w", err)
		}
		if exists {
			return apperr.Conflict("only requested requests can be deleted")
		}
		return apperr.NotFound(requestNotFoundMessage)
	}

	return nil
}
