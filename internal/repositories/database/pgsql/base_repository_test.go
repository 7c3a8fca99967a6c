package pgsql

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/securitypro/oms_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: apperrors.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "payroll_months_month_key"}, want: apperrors.ErrDuplicate},
		{name: "foreign key violation", err: &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "invoices_client_id_fkey"}, want: apperrors.ErrValidation},
		{name: "check violation", err: &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "payments_amount_check"}, want: apperrors.ErrValidation},
		{name: "malformed uuid", err: fmt.Errorf("query: %w", &pgconn.PgError{Code: pgInvalidTextRep, Message: `invalid input syntax for type uuid: "abc"`}), want: apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err, "payroll month"), tt.want)
		})
	}
}

func TestTranslateError_Passthrough(t *testing.T) {
	assert.NoError(t, translateError(nil, "invoice"))

	cause := errors.New("connection reset by peer")
	err := translateError(cause, "invoice")

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "database error on invoice")
}

func TestTranslateError_MalformedIdentifierIsNotFound(t *testing.T) {
	err := translateError(&pgconn.PgError{Code: pgInvalidTextRep}, "invoice abc")

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.NotErrorIs(t, err, apperrors.ErrValidation)
}
