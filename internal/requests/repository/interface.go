package repository

import (
	"context"
	"time"

	"homeservices_backend/internal/requests/domain"

	"github.com/google/uuid"
)

// Request is a service request row.
type Request struct {
	ID             uuid.UUID
	ServiceID      uuid.UUID
	CustomerID     uuid.UUID
	ProfessionalID *uuid.UUID
	ReqDate        time.Time
	CompDate       *time.Time
	Status         domain.Status
	Remarks        string
}

// Detail is the denormalized projection used for reads: the request joined
// with its service, customer, and (when assigned) professional. Rows whose
// service was removed never surface here.
type Detail struct {
	Request
	ServiceName       string
	ServiceType       string
	ServicePriceCents int64
	CustomerName      string
	CustomerAddress   string
	CustomerPin       string
	ProfessionalName  *string
	HasReview         bool
}

// CreateParams contains parameters for opening a request.
type CreateParams struct {
	ServiceID  uuid.UUID
	CustomerID uuid.UUID
	// ReqDate is the scheduled date; nil means now.
	ReqDate *time.Time
	Remarks string
}

// UpdateParams contains parameters for role-scoped field edits. Nil fields
// are left untouched. When ExpectedStatus is set the update only applies
// while the request is still in that status.
type UpdateParams struct {
	ID             uuid.UUID
	Remarks        *string
	ReqDate        *time.Time
	Status         *domain.Status
	ProfessionalID *uuid.UUID
	// SetCompDate stamps comp_date = now() alongside the update.
	SetCompDate    bool
	ExpectedStatus *domain.Status
}

// ListFilter scopes the request listing. The visibility fields compose:
// CustomerID restricts to that customer's rows, ProfessionalID to rows
// assigned to that professional, and IncludeOpenPool additionally admits
// unassigned requested rows. All nil/empty fields are no-ops.
type ListFilter struct {
	Status          string
	From            *time.Time
	To              *time.Time
	Search          string
	CustomerID      *uuid.UUID
	ProfessionalID  *uuid.UUID
	IncludeOpenPool bool
}

// Reader provides read operations for service requests.
type Reader interface {
	Get(ctx context.Context, id uuid.UUID) (Request, error)
	GetDetail(ctx context.Context, id uuid.UUID) (Detail, error)
	List(ctx context.Context, filter ListFilter) ([]Detail, error)
	ScheduleForProfessional(ctx context.Context, professionalID uuid.UUID, day time.Time) ([]Detail, error)
}

// Writer provides write operations for service requests. Accept, Complete,
// and Close are conditional updates; zero affected rows means the request
// changed underneath the caller and surfaces as Conflict.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (Request, error)
	Accept(ctx context.Context, id, professionalID uuid.UUID) error
	Complete(ctx context.Context, id, professionalID uuid.UUID, remarks *string) error
	Close(ctx context.Context, id, customerID uuid.UUID) error
	Update(ctx context.Context, params UpdateParams) (Request, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all request repository operations.
type Repository interface {
	Reader
	Writer
}
