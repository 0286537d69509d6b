package repository

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("record not found")

// ErrValueTooLong reports a value exceeding its column width.
var ErrValueTooLong = errors.New("value too long")

// DuplicateError reports a unique-constraint violation on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s field has to be unique", e.Field)
}
