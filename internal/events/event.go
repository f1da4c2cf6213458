// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"homeservices_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// Event names, for subscribers.
const (
	EventCatalogServiceChanged   = "catalog.service.changed"
	EventServiceRequestCreated   = "requests.created"
	EventServiceRequestAssigned  = "requests.assigned"
	EventServiceRequestCompleted = "requests.completed"
	EventServiceRequestClosed    = "requests.closed"
	EventServiceRequestUpdated   = "requests.updated"
	EventServiceRequestDeleted   = "requests.deleted"
	EventReviewSubmitted         = "reviews.submitted"
	EventAccountModerated        = "identity.account.moderated"
)

// =============================================================================
// Catalog Domain Events
// =============================================================================

// CatalogServiceChanged is published when a service is created, updated,
// or deleted from the catalog.
type CatalogServiceChanged struct {
	BaseEvent
	ServiceID uuid.UUID `json:"serviceId"`
	Action    string    `json:"action"` // "created", "updated", "deleted"
}

func (e CatalogServiceChanged) EventName() string { return EventCatalogServiceChanged }

// =============================================================================
// Request Domain Events
// =============================================================================

// ServiceRequestCreated is published when a customer opens a new request.
type ServiceRequestCreated struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	CustomerID uuid.UUID `json:"customerId"`
}

func (e ServiceRequestCreated) EventName() string { return EventServiceRequestCreated }

// ServiceRequestAssigned is published when a professional accepts a request.
type ServiceRequestAssigned struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
}

func (e ServiceRequestAssigned) EventName() string { return EventServiceRequestAssigned }

// ServiceRequestCompleted is published when a professional marks their work done.
type ServiceRequestCompleted struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
}

func (e ServiceRequestCompleted) EventName() string { return EventServiceRequestCompleted }

// ServiceRequestClosed is published when the customer closes a request.
type ServiceRequestClosed struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CustomerID uuid.UUID `json:"customerId"`
}

func (e ServiceRequestClosed) EventName() string { return EventServiceRequestClosed }

// ServiceRequestUpdated is published on any other mutation of a request
// (remarks, schedule changes, admin edits).
type ServiceRequestUpdated struct {
	BaseEvent
	RequestID uuid.UUID `json:"requestId"`
}

func (e ServiceRequestUpdated) EventName() string { return EventServiceRequestUpdated }

// ServiceRequestDeleted is published when a request is withdrawn.
type ServiceRequestDeleted struct {
	BaseEvent
	RequestID uuid.UUID `json:"requestId"`
}

func (e ServiceRequestDeleted) EventName() string { return EventServiceRequestDeleted }

// =============================================================================
// Review Domain Events
// =============================================================================

// ReviewSubmitted is published when a customer reviews a closed request.
type ReviewSubmitted struct {
	BaseEvent
	ReviewID       uuid.UUID `json:"reviewId"`
	RequestID      uuid.UUID `json:"requestId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	Rating         int       `json:"rating"`
}

func (e ReviewSubmitted) EventName() string { return EventReviewSubmitted }

// =============================================================================
// Identity Domain Events
// =============================================================================

// AccountModerated is published when an admin approves, rejects, blocks,
// or unblocks an account.
type AccountModerated struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
	Action string    `json:"action"` // "approved", "rejected", "blocked", "unblocked"
}

func (e AccountModerated) EventName() string { return EventAccountModerated }
