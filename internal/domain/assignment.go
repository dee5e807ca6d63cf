package domain

import "time"

// Assignment routes a ticket to a support employee.
type Assignment struct {
	ID         string
	EmployeeID string
	TicketID   string
	CreatedAt  time.Time
}

// EmployeeRating is a satisfaction score left on a closed ticket. One per ticket.
type EmployeeRating struct {
	ID         string
	TicketID   string
	EmployeeID *string
	UserID     string
	Score      int
	Comment    string
	CreatedAt  time.Time
}

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)
