package transport

import (
	"time"

	"github.com/google/uuid"
)

// SubmitReviewRequest rates a closed service request.
type SubmitReviewRequest struct {
	RequestID uuid.UUID `json:"requestId" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// ListReviewsRequest optionally scopes the listing to one request.
type ListReviewsRequest struct {
	RequestID string `form:"requestId" validate:"omitempty,uuid"`
}

// ProfessionalReviewsRequest pages through the caller's received reviews.
type ProfessionalReviewsRequest struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// ReviewResponse represents a review in API responses.
type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	RequestID    uuid.UUID `json:"requestId"`
	CustomerID   uuid.UUID `json:"customerId"`
	CustomerName string    `json:"customerName"`
	ServiceName  string    `json:"serviceName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReviewListResponse wraps a list of reviews.
type ReviewListResponse struct {
	Items []ReviewResponse `json:"items"`
	Total int              `json:"total"`
}

// PagedReviewsResponse wraps a paginated list of reviews.
type PagedReviewsResponse struct {
	Items []ReviewResponse `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
