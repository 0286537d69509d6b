package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-tracker-api/pkg/response"
)

const msgInternal = "Something went wrong, please try again later"

// Recovery turns a panic into a 500 envelope, logs it and reports it to Sentry.
func Recovery(logger logrus.FieldLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		err := fmt.Errorf("panic: %v", rec)
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(response.RequestIDKey),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("panic recovered")
		sentry.CaptureException(err)
		response.Error[any](c, http.StatusInternalServerError, msgInternal, nil)
	})
}

// NotFound answers unknown routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error[any](c, http.StatusNotFound, fmt.Sprintf("Can't find %s on this server", c.Request.URL.Path), nil)
	}
}
