package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "open"
	TicketStatusAnswered  TicketStatus = "answered"
	TicketStatusRequested TicketStatus = "requested"
	TicketStatusClosed    TicketStatus = "closed"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityLow    TicketPriority = "low"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	Status        TicketStatus
	Priority      TicketPriority
	ClosedBy      *string
	ChatInitiated bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ParseTicketStatus normalizes a status string; ok is false for unknown values.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	status := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case TicketStatusOpen, TicketStatusAnswered, TicketStatusRequested, TicketStatusClosed:
		return status, true
	}
	return "", false
}

// ParseTicketPriority normalizes a priority string; ok is false for unknown values.
func ParseTicketPriority(raw string) (TicketPriority, bool) {
	priority := TicketPriority(strings.ToLower(strings.TrimSpace(raw)))
	switch priority {
	case TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow:
		return priority, true
	}
	return "", false
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:      {TicketStatusAnswered},
	TicketStatusAnswered:  {TicketStatusAnswered, TicketStatusRequested},
	TicketStatusRequested: {TicketStatusAnswered, TicketStatusClosed},
	TicketStatusClosed:    {},
}

// CanTransition reports whether a ticket may move from current to next.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
