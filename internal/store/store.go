package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-appointment-api/internal/clinic"
)

// Store implements the core's account and appointment contracts over
// postgres.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// mapErr translates driver errors into the core's sentinels: no rows, the
// unique constraints on identities, and the appointment overlap exclusion
// constraint.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return clinic.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return clinic.ErrDuplicate
		case codeExclusionViolation:
			return clinic.ErrSlotTaken
		}
	}
	return err
}
