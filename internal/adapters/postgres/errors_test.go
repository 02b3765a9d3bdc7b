package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/askadit/content-service/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: pgx.ErrNoRows, target: domain.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, target: domain.ErrConflict},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, target: domain.ErrValidation},
		{name: "wrapped unique violation", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), target: domain.ErrConflict},
		{name: "deadline passes through", err: context.DeadlineExceeded, target: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err, "topic", "japan"), tt.target)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, mapError(nil, "topic", "x"))
}

func TestMapError_UnknownKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := mapError(cause, "quote", "q1")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "quote q1")
}
