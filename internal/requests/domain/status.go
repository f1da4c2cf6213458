// Package domain holds the service request state machine.
package domain

// Status is the lifecycle state of a service request.
type Status string

const (
	// StatusRequested means the request is open and unassigned.
	StatusRequested Status = "requested"
	// StatusAssigned means a professional has accepted the request.
	StatusAssigned Status = "assigned"
	// StatusReadyToClose means the professional marked their work done.
	StatusReadyToClose Status = "ready_to_close"
	// StatusClosed means the customer closed the request. Terminal.
	StatusClosed Status = "closed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusAssigned, StatusReadyToClose, StatusClosed:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// transitions lists the legal next states for each state. Closed has none.
var transitions = map[Status][]Status{
	StatusRequested:    {StatusAssigned},
	StatusAssigned:     {StatusReadyToClose, StatusClosed},
	StatusReadyToClose: {StatusClosed},
	StatusClosed:       {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// Closeable reports whether the owning customer may close from this status.
func Closeable(s Status) bool {
	return s == StatusAssigned || s == StatusReadyToClose
}
