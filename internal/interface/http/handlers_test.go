package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/job-tracker-api/pkg/apperror"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
	"github.com/oksasatya/job-tracker-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// stubUsers embeds the interface so tests only override what they call.
type stubUsers struct {
	UserUseCases
	register   func(application.RegisterInput) (*application.AuthResult, error)
	login      func(string, string) (*application.AuthResult, error)
	verifyLink func(string, string) error
	update     func(application.Identity, application.UpdateUserInput, *application.Image) (*entity.User, error)
	forgot     func(string) error
}

func (s *stubUsers) Register(_ context.Context, in application.RegisterInput) (*application.AuthResult, error) {
	return s.register(in)
}

func (s *stubUsers) Login(_ context.Context, ident, pw string) (*application.AuthResult, error) {
	return s.login(ident, pw)
}

func (s *stubUsers) VerifyEmailLink(_ context.Context, userID, token string) error {
	return s.verifyLink(userID, token)
}

func (s *stubUsers) Update(_ context.Context, id application.Identity, _ string, in application.UpdateUserInput, img *application.Image) (*entity.User, error) {
	return s.update(id, in, img)
}

func (s *stubUsers) ForgotPassword(_ context.Context, email string) error { return s.forgot(email) }

type stubJobs struct {
	JobUseCases
	create func(string, application.JobInput) (*entity.Job, error)
	list   func(string, application.JobListQuery) (*application.JobListResult, error)
}

func (s *stubJobs) Create(_ context.Context, owner string, in application.JobInput) (*entity.Job, error) {
	return s.create(owner, in)
}

func (s *stubJobs) List(_ context.Context, owner string, q application.JobListQuery) (*application.JobListResult, error) {
	return s.list(owner, q)
}

func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, application.Identity{UserID: id, Role: entity.RoleUser})
		c.Next()
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func jsonReq(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newUserEngine(svc UserUseCases, redirects Redirects) (*gin.Engine, *test.Hook) {
	logger, hook := test.NewNullLogger()
	h := NewUserHandler(svc, logger, helpers.NewCookie("", false), redirects)
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/verify", h.VerifyEmail)
	r.POST("/forgot-password", h.ForgotPassword)
	r.PATCH("/update", asUser("u1"), h.Update)
	r.GET("/logout", h.Logout)
	return r, hook
}

func TestUserHandler_RegisterSetsCookie(t *testing.T) {
	svc := &stubUsers{register: func(in application.RegisterInput) (*application.AuthResult, error) {
		assert.Equal(t, "alice", in.Username)
		return &application.AuthResult{
			User:      &entity.User{ID: "u1", Username: "alice", Password: "hash"},
			Token:     "jwt-token",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil
	}}
	r, _ := newUserEngine(svc, Redirects{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonReq(http.MethodPost, "/register", `{"username":"alice","email":"a@jobs.io","password":"secret1"}`))

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Please Check and Verify Your Email", body["message"])
	assert.NotContains(t, w.Body.String(), "hash")
	data := body["data"].(map[string]any)
	assert.Equal(t, "jwt-token", data["token"])
	assert.Equal(t, "alice", data["user"].(map[string]any)["username"])
	assert.Contains(t, body["meta"], "expires_at")
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, helpers.SessionCookieName+"=jwt-token")
	assert.Contains(t, cookie, "HttpOnly")
}

func TestUserHandler_LoginReturnsSummary(t *testing.T) {
	svc := &stubUsers{login: func(ident, _ string) (*application.AuthResult, error) {
		return &application.AuthResult{
			User: &entity.User{
				ID: "u1", Username: "bob", Email: "bob@jobs.io", Role: entity.RoleUser,
				Password: "hash", Slug: "bob-slug", ImgProfileID: "obj-1", IsVerified: true,
			},
			Token:     "jwt-token",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil
	}}
	r, _ := newUserEngine(svc, Redirects{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonReq(http.MethodPost, "/login", `{"email":"bob@jobs.io","password":"secret1"}`))

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "jwt-token", data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "u1", user["user_id"])
	assert.Equal(t, "User", user["role"])
	assert.NotContains(t, user, "slug")
	assert.NotContains(t, user, "img_profilePublic")
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestUserHandler_LoginErrorKinds(t *testing.T) {
	svc := &stubUsers{login: func(ident, _ string) (*application.AuthResult, error) {
		assert.Equal(t, "bob", ident)
		return nil, apperror.Unauthenticated(application.MsgInvalidCredentials)
	}}
	r, _ := newUserEngine(svc, Redirects{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonReq(http.MethodPost, "/login", `{"username":"bob","password":"x"}`))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, application.MsgInvalidCredentials, body["message"])
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestUserHandler_InternalErrorsAreHidden(t *testing.T) {
	svc := &stubUsers{forgot: func(string) error { return apperror.Internal(errors.New("db down")) }}
	r, hook := newUserEngine(svc, Redirects{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonReq(http.MethodPost, "/forgot-password", `{"email":"a@jobs.io"}`))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgInternal, decode(t, w)["message"])
	assert.NotContains(t, w.Body.String(), "db down")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestUserHandler_ValidationMessage(t *testing.T) {
	r, _ := newUserEngine(&stubUsers{}, Redirects{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonReq(http.MethodPost, "/forgot-password", `{"email":""}`))

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "email is required", body["message"])
	assert.Equal(t, "is required", body["err"].(map[string]any)["email"])
}

func TestUserHandler_VerifyRedirects(t *testing.T) {
	svc := &stubUsers{verifyLink: func(userID, token string) error {
		if token == "good" {
			return nil
		}
		return apperror.BadRequest(application.MsgInvalidVerification)
	}}
	r, _ := newUserEngine(svc, Redirects{Verified: "https://app/verified", Invalid: "https://app/invalid"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?user_id=u1&token=good", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app/verified", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?user_id=u1&token=bad", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app/invalid", w.Header().Get("Location"))
}

func TestUserHandler_UpdateMultipart(t *testing.T) {
	var gotImage []byte
	svc := &stubUsers{update: func(id application.Identity, in application.UpdateUserInput, img *application.Image) (*entity.User, error) {
		assert.Equal(t, "u1", id.UserID)
		assert.Equal(t, "Jakarta", in.Location)
		require.NotNil(t, img)
		assert.Equal(t, "me.png", img.Filename)
		gotImage, _ = io.ReadAll(img.Reader)
		return &entity.User{ID: "u1", Location: in.Location}, nil
	}}
	r, _ := newUserEngine(svc, Redirects{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("location", "Jakarta"))
	fw, err := mw.CreateFormFile("img_profile", "me.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/update", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", string(gotImage))
}

func TestUserHandler_LogoutClearsCookie(t *testing.T) {
	r, _ := newUserEngine(&stubUsers{}, Redirects{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User Logged Out", decode(t, w)["message"])
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestJobHandler(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := &stubJobs{
		create: func(owner string, in application.JobInput) (*entity.Job, error) {
			if in.Position == "" {
				return nil, apperror.BadRequest(application.MsgProvideAllJobValues)
			}
			return &entity.Job{ID: "j1", Company: in.Company, Position: in.Position, CreatedBy: owner}, nil
		},
		list: func(owner string, q application.JobListQuery) (*application.JobListResult, error) {
			return &application.JobListResult{Jobs: []*entity.Job{}, CurrentPage: q.Page, TotalJobs: 0, NumOfPages: 0}, nil
		},
	}
	h := NewJobHandler(svc, logger)
	r := gin.New()
	r.POST("/jobs", asUser("u1"), h.Create)
	r.POST("/anon/jobs", h.Create)
	r.GET("/jobs", asUser("u1"), h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonReq(http.MethodPost, "/jobs", `{"company":"Acme","position":"Go Dev"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Job created successfully", decode(t, w)["message"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonReq(http.MethodPost, "/jobs", `{"company":"Acme"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, application.MsgProvideAllJobValues, decode(t, w)["message"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonReq(http.MethodPost, "/anon/jobs", `{}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs?page=3&status=Pending", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 3, data["currentPage"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs?page=abc", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
