package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListUsersRequest filters the admin account listing.
type ListUsersRequest struct {
	Role        string `form:"role" validate:"omitempty,oneof=admin professional customer"`
	Name        string `form:"name" validate:"omitempty,max=100"`
	Email       string `form:"email" validate:"omitempty,max=200"`
	ServiceType string `form:"serviceType" validate:"omitempty,max=100"`
	Status      string `form:"status" validate:"omitempty,oneof=active blocked pending"`
}

// ProfessionalProfile is the professional projection in API responses.
type ProfessionalProfile struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ServiceType string    `json:"serviceType"`
	Experience  int       `json:"experience"`
	Description string    `json:"description,omitempty"`
	Mobile      string    `json:"mobile,omitempty"`
	Pin         string    `json:"pin,omitempty"`
	Approved    bool      `json:"approved"`
	Blocked     bool      `json:"blocked"`
}

// CustomerProfile is the customer projection in API responses.
type CustomerProfile struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Mobile  string    `json:"mobile,omitempty"`
	Pin     string    `json:"pin"`
	Blocked bool      `json:"blocked"`
}

// UserAccountResponse is one row of the admin account listing.
type UserAccountResponse struct {
	ID           uuid.UUID            `json:"id"`
	Email        string               `json:"email"`
	Role         string               `json:"role"`
	Active       bool                 `json:"active"`
	CreatedAt    time.Time            `json:"createdAt"`
	Professional *ProfessionalProfile `json:"professional,omitempty"`
	Customer     *CustomerProfile     `json:"customer,omitempty"`
}

// UserListResponse wraps the admin account listing.
type UserListResponse struct {
	Items []UserAccountResponse `json:"items"`
	Total int                   `json:"total"`
}

// ProfessionalStatsResponse aggregates a professional's track record.
type ProfessionalStatsResponse struct {
	TotalRequests     int     `json:"totalRequests"`
	CompletedRequests int     `json:"completedRequests"`
	AverageRating     float64 `json:"averageRating"`
	ReviewCount       int     `json:"reviewCount"`
}

// RequestSummaryResponse is a compact request row for detail screens.
type RequestSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	ServiceName string    `json:"serviceName"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requestedAt"`
}

// ProfessionalDetailResponse is the admin professional detail screen.
type ProfessionalDetailResponse struct {
	Profile        ProfessionalProfile       `json:"profile"`
	Stats          ProfessionalStatsResponse `json:"stats"`
	RecentRequests []RequestSummaryResponse  `json:"recentRequests"`
}

// CustomerDetailResponse is the admin customer detail screen.
type CustomerDetailResponse struct {
	Profile CustomerProfile `json:"profile"`
}

// ModerateProfessionalRequest carries an admin moderation action.
type ModerateProfessionalRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject block unblock"`
}

// ModerateCustomerRequest carries an admin moderation action for customers.
type ModerateCustomerRequest struct {
	Action string `json:"action" validate:"required,oneof=block unblock"`
}

// UpdateProfessionalProfileRequest contains the self-editable fields.
type UpdateProfessionalProfileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Experience  *int    `json:"experience,omitempty" validate:"omitempty,min=0,max=80"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Mobile      *string `json:"mobile,omitempty" validate:"omitempty,max=20"`
	Pin         *string `json:"pin,omitempty" validate:"omitempty,len=6,numeric"`
}

// ProfessionalSelfResponse is the professional's own profile screen.
type ProfessionalSelfResponse struct {
	Profile ProfessionalProfile       `json:"profile"`
	Stats   ProfessionalStatsResponse `json:"stats"`
}
