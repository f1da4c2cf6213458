package transport

import (
	"time"

	"github.com/google/uuid"
)

// StatusCountsResponse breaks request totals down by lifecycle state.
type StatusCountsResponse struct {
	Requested    int `json:"requested"`
	Assigned     int `json:"assigned"`
	ReadyToClose int `json:"readyToClose"`
	Closed       int `json:"closed"`
}

// RecentRequestResponse is one row of the dashboard's recent activity.
type RecentRequestResponse struct {
	ID               uuid.UUID `json:"id"`
	ServiceName      string    `json:"serviceName"`
	CustomerName     string    `json:"customerName"`
	ProfessionalName *string   `json:"professionalName,omitempty"`
	Status           string    `json:"status"`
	ReqDate          time.Time `json:"reqDate"`
}

// DashboardResponse is the role-scoped dashboard. Admins see platform
// totals; professionals see their own counts plus rating aggregates.
type DashboardResponse struct {
	Role           string                  `json:"role"`
	TotalUsers     int                     `json:"totalUsers,omitempty"`
	Professionals  int                     `json:"professionals,omitempty"`
	Customers      int                     `json:"customers,omitempty"`
	Services       int                     `json:"services,omitempty"`
	TotalRequests  int                     `json:"totalRequests"`
	ByStatus       StatusCountsResponse    `json:"byStatus"`
	AverageRating  *float64                `json:"averageRating,omitempty"`
	ReviewCount    *int                    `json:"reviewCount,omitempty"`
	RecentRequests []RecentRequestResponse `json:"recentRequests"`
}

// PopularServiceResponse is one entry of the popularity ranking.
type PopularServiceResponse struct {
	ServiceID     uuid.UUID `json:"serviceId"`
	Name          string    `json:"name"`
	ServiceType   string    `json:"serviceType"`
	RequestCount  int       `json:"requestCount"`
	AverageRating float64   `json:"averageRating"`
	Score         float64   `json:"score"`
}

// PopularServicesResponse wraps the popularity ranking.
type PopularServicesResponse struct {
	Items []PopularServiceResponse `json:"items"`
}
