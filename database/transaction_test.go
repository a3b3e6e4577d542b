package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsSerializationFailure(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"})))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("boom")))
}

func TestUniqueViolation(t *testing.T) {
	constraint, ok := UniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "registrations_user_tournament_key",
	}))
	assert.True(t, ok)
	assert.Equal(t, "registrations_user_tournament_key", constraint)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23514"})
	assert.False(t, ok)
}

func TestCheckViolation(t *testing.T) {
	constraint, ok := CheckViolation(&pgconn.PgError{Code: "23514", ConstraintName: "users_balance_non_negative"})
	assert.True(t, ok)
	assert.Equal(t, "users_balance_non_negative", constraint)
}

func TestIsNumericOutOfRange(t *testing.T) {
	assert.True(t, IsNumericOutOfRange(fmt.Errorf("credit: %w", &pgconn.PgError{Code: "22003"})))
	assert.False(t, IsNumericOutOfRange(&pgconn.PgError{Code: "23514"}))
	assert.False(t, IsNumericOutOfRange(errors.New("boom")))
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"cancelled", context.Canceled, true},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, true},
		{"statement cancelled", &pgconn.PgError{Code: "57014"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, false},
		{"no rows", pgx.ErrNoRows, false},
		{"network", errors.New("connection reset by peer"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUnavailable(tt.err))
		})
	}
}
