package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/askadit/content-service/internal/domain"
)

// mapError converts pgx errors to domain errors. Context errors pass through.
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFoundError(entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domain.NewConflictError(entity, id)
		case "23514", "23502": // check_violation, not_null_violation
			return domain.NewValidationError(pgErr.ColumnName, pgErr.Message)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
