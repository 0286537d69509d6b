package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/pkg/apperror"
	"github.com/oksasatya/job-tracker-api/pkg/response"
)

func abortWith(c *gin.Context, err error) {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		response.Error[any](c, ae.Kind.HTTPStatus(), ae.Message, nil)
		return
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

// DemoGuard rejects mutating requests from the shared demo account.
func DemoGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, MsgAuthInvalid, nil)
			return
		}
		if err := application.RejectDemo(id); err != nil {
			abortWith(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin lets only Admin identities through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, MsgAuthInvalid, nil)
			return
		}
		if err := application.RequireAdmin(id); err != nil {
			abortWith(c, err)
			return
		}
		c.Next()
	}
}
