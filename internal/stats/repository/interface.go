package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatusCounts breaks request totals down by lifecycle state.
type StatusCounts struct {
	Requested    int
	Assigned     int
	ReadyToClose int
	Closed       int
}

// AdminTotals is the platform-wide dashboard aggregate.
type AdminTotals struct {
	Users         int
	Professionals int
	Customers     int
	Services      int
	Requests      int
	ByStatus      StatusCounts
}

// ProfessionalTotals is the dashboard aggregate scoped to one professional.
type ProfessionalTotals struct {
	Requests      int
	ByStatus      StatusCounts
	AverageRating float64
	ReviewCount   int
}

// RecentRequest is a denormalized row for the dashboard's recent activity.
type RecentRequest struct {
	ID               uuid.UUID
	ServiceName      string
	CustomerName     string
	ProfessionalName *string
	Status           string
	ReqDate          time.Time
}

// PopularityRow carries the raw inputs of the popularity score for one
// catalog entry.
type PopularityRow struct {
	ServiceID     uuid.UUID
	Name          string
	ServiceType   string
	RequestCount  int
	AverageRating float64
}

// Repository provides read-only dashboard aggregates.
type Repository interface {
	AdminTotals(ctx context.Context) (AdminTotals, error)
	ProfessionalTotals(ctx context.Context, professionalID uuid.UUID) (ProfessionalTotals, error)
	RecentRequests(ctx context.Context, limit int) ([]RecentRequest, error)
	RecentRequestsForProfessional(ctx context.Context, professionalID uuid.UUID, limit int) ([]RecentRequest, error)
	PopularityRows(ctx context.Context) ([]PopularityRow, error)
}
