package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketAssigned   EventType = "ticket_assigned"
	EventTicketConnected  EventType = "ticket_connected"
	EventClosureRequested EventType = "closure_requested"
	EventTicketClosed     EventType = "ticket_closed"
	EventTicketRated      EventType = "ticket_rated"
	EventClosureReminder  EventType = "closure_reminder"
	EventProfileUpdated   EventType = "profile_updated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Priority domain.TicketPriority `json:"priority"`
	Title    string                `json:"title"`
}

// StatusChangedPayload is shared by connect, closure request and closure events.
type StatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	OwnerID   string              `json:"owner_id"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	EmployeeID string `json:"employee_id"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Score      int     `json:"score"`
}

// ClosureReminderPayload payload.
type ClosureReminderPayload struct {
	OwnerID     string    `json:"owner_id"`
	RequestedAt time.Time `json:"requested_at"`
}
