package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")
	deadlock := &pgconn.PgError{Code: "40P01"}
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: ErrDuplicate},
		{name: "malformed uuid", err: &pgconn.PgError{Code: "22P02"}, want: pgx.ErrNoRows},
		{name: "wrapped malformed uuid", err: fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02"}), want: pgx.ErrNoRows},
		{name: "other pg error", err: deadlock, want: deadlock},
		{name: "plain error", err: other, want: other},
		{name: "nil", err: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.err); !errors.Is(got, tt.want) && got != tt.want {
				t.Fatalf("translate(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
