package application

import (
	"errors"

	"github.com/oksasatya/job-tracker-api/internal/domain/repository"
	"github.com/oksasatya/job-tracker-api/pkg/apperror"
)

// translate maps repository errors onto error kinds. notFound is the message
// used for repository.ErrNotFound.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	if errors.Is(err, repository.ErrValueTooLong) {
		return apperror.BadRequest(MsgValueTooLong)
	}
	var dup *repository.DuplicateError
	if errors.As(err, &dup) {
		return apperror.BadRequest(dup.Error())
	}
	return apperror.Internal(err)
}
