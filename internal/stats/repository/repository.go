package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new stats repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// AdminTotals aggregates platform-wide counts in one round trip.
func (r *Repo) AdminTotals(ctx context.Context) (AdminTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM professionals),
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM services),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'requested'),
			COUNT(*) FILTER (WHERE status = 'assigned'),
			COUNT(*) FILTER (WHERE status = 'ready_to_close'),
			COUNT(*) FILTER (WHERE status = 'closed')
		FROM service_requests`

	var t AdminTotals
	err := r.pool.QueryRow(ctx, query).Scan(
		&t.Users, &t.Professionals, &t.Customers, &t.Services, &t.Requests,
		&t.ByStatus.Requested, &t.ByStatus.Assigned, &t.ByStatus.ReadyToClose, &t.ByStatus.Closed,
	)
	if err != nil {
		return AdminTotals{}, fmt.Errorf("admin totals: %w", err)
	}

	return t, nil
}

// ProfessionalTotals aggregates counts and ratings for one professional.
func (r *Repo) ProfessionalTotals(ctx context.Context, professionalID uuid.UUID) (ProfessionalTotals, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'assigned'),
			COUNT(*) FILTER (WHERE status = 'ready_to_close'),
			COUNT(*) FILTER (WHERE status = 'closed'),
			(SELECT COALESCE(AVG(rv.rating), 0)
				FROM reviews rv
				JOIN service_requests r2 ON r2.id = rv.service_request_id
				WHERE r2.professional_id = $1),
			(SELECT COUNT(*)
				FROM reviews rv
				JOIN service_requests r2 ON r2.id = rv.service_request_id
				WHERE r2.professional_id = $1)
		FROM service_requests
		WHERE professional_id = $1`

	var t ProfessionalTotals
	err := r.pool.QueryRow(ctx, query, professionalID).Scan(
		&t.Requests, &t.ByStatus.Assigned, &t.ByStatus.ReadyToClose, &t.ByStatus.Closed,
		&t.AverageRating, &t.ReviewCount,
	)
	if err != nil {
		return ProfessionalTotals{}, fmt.Errorf("professional totals: %w", err)
	}

	return t, nil
}

const recentSelect = `
	SELECT r.id, s.name, c.name, p.name, r.status, r.req_date
	FROM service_requests r
	JOIN services s ON s.id = r.service_id
	JOIN customers c ON c.id = r.customer_id
	LEFT JOIN professionals p ON p.id = r.professional_id`

// RecentRequests retrieves the newest requests platform-wide.
func (r *Repo) RecentRequests(ctx context.Context, limit int) ([]RecentRequest, error) {
	query := recentSelect + ` ORDER BY r.req_date DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent requests: %w", err)
	}
	defer rows.Close()

	return collectRecent(rows)
}

// RecentRequestsForProfessional retrieves the professional's newest
// assignments.
func (r *Repo) RecentRequestsForProfessional(ctx context.Context, professionalID uuid.UUID, limit int) ([]RecentRequest, error) {
	query := recentSelect + ` WHERE r.professional_id = $1 ORDER BY r.req_date DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, professionalID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent professional requests: %w", err)
	}
	defer rows.Close()

	return collectRecent(rows)
}

func collectRecent(rows pgx.Rows) ([]RecentRequest, error) {
	var results []RecentRequest
	for rows.Next() {
		var rr RecentRequest
		if err := rows.Scan(&rr.ID, &rr.ServiceName, &rr.CustomerName, &rr.ProfessionalName, &rr.Status, &rr.ReqDate); err != nil {
			continue
		}
		results = append(results, rr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent requests: %w", err)
	}

	return results, nil
}

// PopularityRows retrieves the request count and average rating per
// catalog entry. Unrated services report a zero average.
func (r *Repo) PopularityRows(ctx context.Context) ([]PopularityRow, error) {
	query := `
		SELECT s.id, s.name, s.service_type,
			(SELECT COUNT(*) FROM service_requests r WHERE r.service_id = s.id),
			COALESCE((SELECT AVG(rv.rating)
				FROM reviews rv
				JOIN service_requests r2 ON r2.id = rv.service_request_id
				WHERE r2.service_id = s.id), 0)
		FROM services s`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("popularity rows: %w", err)
	}
	defer rows.Close()

	var results []PopularityRow
	for rows.Next() {
		var p PopularityRow
		if err := rows.Scan(&p.ServiceID, &p.Name, &p.ServiceType, &p.RequestCount, &p.AverageRating); err != nil {
			return nil, fmt.Errorf("scan popularity row: %w", err)
		}
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popularity rows: %w", err)
	}

	return results, nil
}
