package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/job-tracker-api/internal/domain/repository"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repository.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestMapError_UniqueViolation(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_live_uq"})
	var dup *repository.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "email field has to be unique", dup.Error())

	err = mapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_live_uq"})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
}

func TestMapError_ValueTooLong(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "22001", Message: "value too long for type character varying(20)"})
	assert.ErrorIs(t, err, repository.ErrValueTooLong)
}

func TestValidIDAndNullable(t *testing.T) {
	assert.True(t, validID(ownerID))
	assert.False(t, validID("not-a-uuid"))
	assert.Nil(t, nullable(""))
	assert.Equal(t, ownerID, nullable(ownerID))
}
