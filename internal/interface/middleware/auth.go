package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
	"github.com/oksasatya/job-tracker-api/pkg/response"
)

const (
	CtxIdentityKey = "identity"
	CtxUserIDKey   = "userID"

	MsgAuthInvalid = "Authentication Invalid"
)

// UserLookup resolves the live user behind a session token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// TokenParser is satisfied by helpers.JWTManager.
type TokenParser interface {
	Parse(token string) (*helpers.Claims, error)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth reads the session token from the Authorization header or the session
// cookie, loads the user it names and stores an application.Identity in the
// gin context. Every failure is answered with 401.
func Auth(users UserLookup, tokens TokenParser, demoEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(helpers.SessionCookieName)
		}
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, MsgAuthInvalid, "missing token")
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, MsgAuthInvalid, err.Error())
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.Error[any](c, http.StatusUnauthorized, MsgAuthInvalid, "user not found")
			return
		}

		SetIdentity(c, application.NewIdentity(u, demoEmail))
		c.Next()
	}
}

// SetIdentity stores id for downstream handlers and the per-user rate limit key.
func SetIdentity(c *gin.Context, id application.Identity) {
	c.Set(CtxIdentityKey, id)
	c.Set(CtxUserIDKey, id.UserID)
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c *gin.Context) (application.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return application.Identity{}, false
	}
	id, ok := v.(application.Identity)
	return id, ok
}
