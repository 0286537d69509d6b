package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/job-tracker-api/internal/domain/repository"
)

const (
	uniqueViolation  = "23505"
	stringTruncation = "22001"
)

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return &repository.DuplicateError{Field: fieldFromConstraint(pgErr.ConstraintName)}
		case stringTruncation:
			return repository.ErrValueTooLong
		}
	}
	return err
}

func fieldFromConstraint(name string) string {
	switch {
	case strings.Contains(name, "email"):
		return "email"
	case strings.Contains(name, "username"):
		return "username"
	case strings.Contains(name, "token"):
		return "token"
	case name == "":
		return "value"
	default:
		return name
	}
}

// validID reports whether id can be bound to a uuid column; malformed ids
// are treated as missing rows instead of surfacing a driver error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullable maps "" to SQL NULL for optional uuid columns.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}
