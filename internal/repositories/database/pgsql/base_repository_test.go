package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"second posting of a source", &pgconn.PgError{Code: "23505", ConstraintName: constraintEntrySource}, apperrors.ErrDuplicate},
		{"lost race on entry number", &pgconn.PgError{Code: "23505", ConstraintName: "ledger_entries_number_key"}, apperrors.ErrConcurrency},
		{"lost race on chain position", &pgconn.PgError{Code: "23505", ConstraintName: "integrity_records_position_key"}, apperrors.ErrConcurrency},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, apperrors.ErrConcurrency},
		{"append-only trigger", &pgconn.PgError{Code: "23001", Message: "audit_records is append-only"}, apperrors.ErrIntegrity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPgError(tt.err, "op"), tt.want)
		})
	}

	err := mapPgError(errors.New("connection reset"), "op")
	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Code)
	assert.NotErrorIs(t, err, apperrors.ErrIntegrity)
}
