package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequestRequest opens a new service request.
type CreateRequestRequest struct {
	ServiceID     uuid.UUID  `json:"serviceId" validate:"required"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	Remarks       string     `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// CompleteRequestRequest carries the professional's optional closing remarks.
type CompleteRequestRequest struct {
	Remarks *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// UpdateRequestRequest contains role-scoped field edits. Which fields are
// honored depends on the caller's role.
type UpdateRequestRequest struct {
	Remarks        *string    `json:"remarks,omitempty" validate:"omitempty,max=500"`
	ScheduledDate  *time.Time `json:"scheduledDate,omitempty"`
	Status         *string    `json:"status,omitempty" validate:"omitempty,oneof=requested assigned ready_to_close closed"`
	ProfessionalID *uuid.UUID `json:"professionalId,omitempty"`
}

// ListRequestsRequest filters the request listing. Dates use YYYY-MM-DD;
// the to date is inclusive of the whole day.
type ListRequestsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=requested assigned ready_to_close closed"`
	From     string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Search   string `form:"search" validate:"omitempty,max=100"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=500"`
	RoleView string `form:"roleView" validate:"omitempty,oneof=admin professional customer"`
}

// ScheduleRequest selects the day for the professional's schedule view.
type ScheduleRequest struct {
	Date string `form:"date" validate:"required,datetime=2006-01-02"`
}

// RequestResponse is the denormalized request projection in API responses.
type RequestResponse struct {
	ID               uuid.UUID  `json:"id"`
	ServiceID        uuid.UUID  `json:"serviceId"`
	ServiceName      string     `json:"serviceName"`
	ServiceType      string     `json:"serviceType"`
	PriceCents       int64      `json:"priceCents"`
	CustomerID       uuid.UUID  `json:"customerId"`
	CustomerName     string     `json:"customerName"`
	CustomerAddress  string     `json:"customerAddress,omitempty"`
	CustomerPin      string     `json:"customerPin,omitempty"`
	ProfessionalID   *uuid.UUID `json:"professionalId,omitempty"`
	ProfessionalName *string    `json:"professionalName,omitempty"`
	Status           string     `json:"status"`
	ReqDate          time.Time  `json:"reqDate"`
	CompDate         *time.Time `json:"compDate,omitempty"`
	Remarks          string     `json:"remarks,omitempty"`
	HasReview        bool       `json:"hasReview"`
}

// RequestListResponse wraps a list of request projections.
type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Total int               `json:"total"`
}
