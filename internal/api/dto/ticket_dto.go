package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID            string                `json:"id"`
	UserID        string                `json:"user_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	ClosedBy      *string               `json:"closed_by"`
	ChatInitiated bool                  `json:"chat_initiated"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// TicketPageResponse is one page of the ticket list.
type TicketPageResponse struct {
	Items   []TicketResponse `json:"items"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Total   int              `json:"total"`
	Pages   int              `json:"pages"`
}

// PromptResponse tells the client which modal to show, if any.
type PromptResponse struct {
	Kind   string          `json:"kind"`
	Ticket *TicketResponse `json:"ticket"`
}

// DashboardStatsResponse mirrors the dashboard counters.
type DashboardStatsResponse struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Urgent     int `json:"urgent"`
}

// DashboardResponse is the landing view payload.
type DashboardResponse struct {
	Stats  DashboardStatsResponse `json:"stats"`
	Recent []TicketResponse       `json:"recent"`
	Prompt PromptResponse         `json:"prompt"`
}

// RatingRequest payload.
type RatingRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// RatingResponse echoes a stored rating.
type RatingResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	EmployeeID *string   `json:"employee_id"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
