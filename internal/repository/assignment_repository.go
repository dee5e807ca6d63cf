package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AssignmentRepository stores ticket routing to employees.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Assignment, error)
	Exists(ctx context.Context, employeeID, ticketID string) (bool, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository builds repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO assignments (user_id, ticket_id)
        VALUES ($1,$2)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, assignment.EmployeeID, assignment.TicketID).
		Scan(&assignment.ID, &assignment.CreatedAt)
	return translate(err)
}

func (r *assignmentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Assignment, error) {
	const query = `
        SELECT id, user_id, ticket_id, created_at
        FROM assignments WHERE user_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.TicketID, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) Exists(ctx context.Context, employeeID, ticketID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM assignments WHERE user_id=$1 AND ticket_id=$2)`,
		employeeID, ticketID,
	).Scan(&exists)
	if errors.Is(translate(err), pgx.ErrNoRows) {
		return false, nil
	}
	return exists, err
}
