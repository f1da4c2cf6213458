package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is a catalog entry customers can request.
type Service struct {
	ID             uuid.UUID
	Name           string
	PriceCents     int64
	TimeReqMinutes int
	Description    string
	ServiceType    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ServiceWithAvailability decorates a catalog entry with whether any
// approved, unblocked professional currently covers it.
type ServiceWithAvailability struct {
	Service
	HasProfessionals bool
}

// ListParams filters the public catalog listing. All filters are optional.
type ListParams struct {
	Name        string
	ServiceType string
	// Pin restricts availability to professionals serving that pin area.
	Pin string
}

// CreateParams contains parameters for creating a service.
type CreateParams struct {
	Name           string
	PriceCents     int64
	TimeReqMinutes int
	Description    string
	ServiceType    string
}

// UpdateParams contains parameters for updating a service.
type UpdateParams struct {
	ID             uuid.UUID
	Name           *string
	PriceCents     *int64
	TimeReqMinutes *int
	Description    *string
	ServiceType    *string
}

// Reader provides read operations for the catalog.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Service, error)
	List(ctx context.Context, params ListParams) ([]ServiceWithAvailability, error)
	ListTypes(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Writer provides write operations for the catalog.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (Service, error)
	Update(ctx context.Context, params UpdateParams) (Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all catalog repository operations.
type Repository interface {
	Reader
	Writer
}
