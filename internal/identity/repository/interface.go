package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the single role attached to every account.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleCustomer     Role = "customer"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessional, RoleCustomer:
		return true
	}
	return false
}

// User is the account projection without credentials.
type User struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	Active    bool
	CreatedAt time.Time
}

// Professional is a service provider profile.
type Professional struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	ServiceType string
	Experience  int
	Description string
	Mobile      string
	Pin         string
	Approved    bool
	Blocked     bool
	CreatedAt   time.Time
}

// Customer is a service consumer profile.
type Customer struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Address   string
	Mobile    string
	Pin       string
	Blocked   bool
	CreatedAt time.Time
}

// AccountRow is the admin listing projection: the account plus whichever
// profile matches its role.
type AccountRow struct {
	User         User
	Professional *Professional
	Customer     *Customer
}

// ListAccountsParams filters the admin account listing.
type ListAccountsParams struct {
	Role        Role
	Name        string
	Email       string
	ServiceType string
	// Status is one of "", "active", "blocked", "pending".
	Status string
}

// ProfessionalStats aggregates a professional's track record.
type ProfessionalStats struct {
	TotalRequests     int
	CompletedRequests int
	AverageRating     float64
	ReviewCount       int
}

// RequestSummary is a compact request projection for detail screens.
type RequestSummary struct {
	ID          uuid.UUID
	ServiceName string
	Status      string
	RequestedAt time.Time
}

// UpdateProfessionalParams contains the self-editable profile fields.
type UpdateProfessionalParams struct {
	UserID      uuid.UUID
	Name        *string
	Experience  *int
	Description *string
	Mobile      *string
	Pin         *string
}

// Reader provides account and profile lookups.
type Reader interface {
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	GetProfessionalByUserID(ctx context.Context, userID uuid.UUID) (Professional, error)
	GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (Customer, error)
	GetProfessionalByID(ctx context.Context, id uuid.UUID) (Professional, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (Customer, error)
	ListAccounts(ctx context.Context, params ListAccountsParams) ([]AccountRow, error)
	GetProfessionalStats(ctx context.Context, professionalID uuid.UUID) (ProfessionalStats, error)
	RecentRequestsForProfessional(ctx context.Context, professionalID uuid.UUID, limit int) ([]RequestSummary, error)
}

// Writer provides moderation and profile mutations.
type Writer interface {
	SetProfessionalApproved(ctx context.Context, id uuid.UUID, approved bool) error
	// SetProfessionalBlocked flips the profile's blocked flag and the
	// account's active flag in the same transaction.
	SetProfessionalBlocked(ctx context.Context, id uuid.UUID, blocked bool) (Professional, error)
	// SetCustomerBlocked follows the same transactional rule.
	SetCustomerBlocked(ctx context.Context, id uuid.UUID, blocked bool) (Customer, error)
	UpdateProfessional(ctx context.Context, params UpdateProfessionalParams) (Professional, error)
}

// Repository combines all identity repository operations.
type Repository interface {
	Reader
	Writer
}
