package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "github.com/oksasatya/job-tracker-api/internal/interface/http"
	"github.com/oksasatya/job-tracker-api/internal/router/modules"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestRegistry(debug bool) *Registry {
	logger, _ := test.NewNullLogger()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }

	reg := NewRegistry(gin.New())
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(nil, logger, helpers.NewCookie("", false), handlers.Redirects{}), nil, []gin.HandlerFunc{deny}, modules.Limits{Register: 10, RegisterWindow: 15 * time.Minute}))
	reg.Add(modules.NewJobModule(handlers.NewJobHandler(nil, logger), []gin.HandlerFunc{deny}))
	reg.Add(modules.NewDebugModule(nil, debug))
	reg.RegisterAll()
	return reg
}

func TestRegistry_RoutesMounted(t *testing.T) {
	reg := newTestRegistry(false)

	got := map[string]bool{}
	for _, r := range reg.Engine.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/users/register",
		"POST /api/v1/users/login",
		"GET /api/v1/users/verify",
		"POST /api/v1/users/verify-email",
		"POST /api/v1/users/resend-verification",
		"POST /api/v1/users/forgot-password",
		"POST /api/v1/users/reset-password",
		"PATCH /api/v1/users/update",
		"POST /api/v1/users/update-password",
		"DELETE /api/v1/users/delete",
		"GET /api/v1/users/info",
		"GET /api/v1/users/",
		"GET /api/v1/users/detail/:id",
		"GET /api/v1/users/username",
		"GET /api/v1/users/email",
		"GET /api/v1/users/search",
		"GET /api/v1/users/app-stats",
		"GET /api/v1/users/logout",
		"POST /api/v1/jobs",
		"GET /api/v1/jobs",
		"GET /api/v1/jobs/stats",
		"GET /api/v1/jobs/detail/:id",
		"PATCH /api/v1/jobs/:id",
		"DELETE /api/v1/jobs/:id",
		"GET /api/v1/test",
	} {
		assert.True(t, got[want], want)
	}
	assert.False(t, got["GET /api/v1/debug/vars"])
}

func TestRegistry_ProtectedRoutesRunSessionChain(t *testing.T) {
	reg := newTestRegistry(true)

	for _, path := range []string{"/api/v1/jobs", "/api/v1/users/info"} {
		w := httptest.NewRecorder()
		reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Server is running"}`, w.Body.String())

	w = httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/debug/vars", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
