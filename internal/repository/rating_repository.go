package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RatingRepository stores employee satisfaction ratings.
type RatingRepository interface {
	// Create returns ErrDuplicate when the ticket already carries a rating.
	Create(ctx context.Context, rating *domain.EmployeeRating) error
	// RatedTicketIDs returns the subset of ticketIDs that have a rating row.
	RatedTicketIDs(ctx context.Context, ticketIDs []string) (map[string]struct{}, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository builds repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.EmployeeRating) error {
	const query = `
        INSERT INTO employee_ratings (ticket_id, employee_id, user_id, score, comment)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		rating.TicketID,
		rating.EmployeeID,
		rating.UserID,
		rating.Score,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
	return translate(err)
}

func (r *ratingRepository) RatedTicketIDs(ctx context.Context, ticketIDs []string) (map[string]struct{}, error) {
	rated := make(map[string]struct{}, len(ticketIDs))
	if len(ticketIDs) == 0 {
		return rated, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT ticket_id::text FROM employee_ratings WHERE ticket_id::text = ANY($1)`, ticketIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		rated[id] = struct{}{}
	}
	return rated, rows.Err()
}
