package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListServicesRequest filters the public catalog listing.
type ListServicesRequest struct {
	Name        string `form:"name" validate:"omitempty,max=100"`
	ServiceType string `form:"type" validate:"omitempty,max=100"`
	Pin         string `form:"pin" validate:"omitempty,len=6,numeric"`
}

// CreateServiceRequest contains data for creating a catalog entry.
type CreateServiceRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=100"`
	PriceCents     int64  `json:"priceCents" validate:"required,min=0"`
	TimeReqMinutes int    `json:"timeReqMinutes" validate:"required,min=1"`
	Description    string `json:"description,omitempty" validate:"omitempty,max=500"`
	ServiceType    string `json:"serviceType" validate:"required,min=1,max=100"`
}

// UpdateServiceRequest contains data for updating a catalog entry.
type UpdateServiceRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	PriceCents     *int64  `json:"priceCents,omitempty" validate:"omitempty,min=0"`
	TimeReqMinutes *int    `json:"timeReqMinutes,omitempty" validate:"omitempty,min=1"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ServiceType    *string `json:"serviceType,omitempty" validate:"omitempty,min=1,max=100"`
}

// ServiceResponse represents a catalog entry in API responses.
type ServiceResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	PriceCents       int64     `json:"priceCents"`
	TimeReqMinutes   int       `json:"timeReqMinutes"`
	Description      string    `json:"description,omitempty"`
	ServiceType      string    `json:"serviceType"`
	HasProfessionals bool      `json:"hasProfessionals"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ServiceListResponse wraps a list of catalog entries.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}

// ServiceTypesResponse lists the distinct service types.
type ServiceTypesResponse struct {
	Types []string `json:"types"`
}
