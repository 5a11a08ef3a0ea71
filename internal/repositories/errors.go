package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "dispatch-system/pkg/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver errors onto the application taxonomy. Unique
// violations are the DB-level backstop for the slot-occupancy and
// single-active-assignment invariants, so they surface as conflicts.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewConflictError("the requested slot is already occupied")
		case pgForeignKeyViolation:
			return apperrors.ErrNotFound
		}
	}
	return err
}
