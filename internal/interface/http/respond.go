package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/job-tracker-api/pkg/apperror"
	"github.com/oksasatya/job-tracker-api/pkg/response"
	"github.com/oksasatya/job-tracker-api/pkg/validation"
)

const MsgInternal = "Something went wrong, please try again later"

// RespondError renders err as an envelope. Internal errors are logged,
// reported to Sentry and hidden behind a generic message.
func RespondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	var ae *apperror.Error
	if errors.As(err, &ae) && ae.Kind != apperror.KindInternal {
		response.Error[any](c, ae.Kind.HTTPStatus(), ae.Message, nil)
		return
	}
	logger.WithFields(logrus.Fields{
		"request_id": c.GetString(response.RequestIDKey),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
	}).WithError(err).Error("request failed")
	sentry.CaptureException(err)
	response.Error[any](c, http.StatusInternalServerError, MsgInternal, nil)
}

// bind decodes the request by content type; an empty body is not an error.
// Validation failures are answered with 400 and false is returned.
func bind(c *gin.Context, dst any) bool {
	err := c.ShouldBind(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	response.Error[any](c, http.StatusBadRequest, validation.Message(err), validation.ToDetails(err))
	return false
}

func identity(c *gin.Context) (application.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, middleware.MsgAuthInvalid, nil)
	}
	return id, ok
}
