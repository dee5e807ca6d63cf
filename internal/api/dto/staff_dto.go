package dto

import "time"

// AssignTicketRequest payload for admin assignment.
type AssignTicketRequest struct {
	TicketID   string `json:"ticket_id"`
	EmployeeID string `json:"employee_id"`
}

// AssignmentResponse echoes a stored assignment.
type AssignmentResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	EmployeeID string    `json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
