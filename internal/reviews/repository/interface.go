package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Review is a customer's rating of a closed service request.
type Review struct {
	ID               uuid.UUID
	ServiceRequestID uuid.UUID
	CustomerID       uuid.UUID
	Rating           int
	Comment          string
	CreatedAt        time.Time
}

// ReviewWithNames decorates a review with display names for listings.
type ReviewWithNames struct {
	Review
	CustomerName string
	ServiceName  string
}

// CreateParams contains parameters for submitting a review.
type CreateParams struct {
	ServiceRequestID uuid.UUID
	CustomerID       uuid.UUID
	Rating           int
	Comment          string
}

// ListParams filters the review listing.
type ListParams struct {
	RequestID *uuid.UUID
}

// ProfessionalPage selects one page of a professional's received reviews.
type ProfessionalPage struct {
	ProfessionalID uuid.UUID
	Limit          int
	Offset         int
}

// Repository provides review storage operations. Create relies on the
// unique (request, customer) constraint to reject duplicates.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Review, error)
	List(ctx context.Context, params ListParams) ([]ReviewWithNames, error)
	ListForProfessional(ctx context.Context, page ProfessionalPage) ([]ReviewWithNames, error)
	CountForProfessional(ctx context.Context, professionalID uuid.UUID) (int, error)
}
