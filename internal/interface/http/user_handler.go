package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
	"github.com/oksasatya/job-tracker-api/pkg/response"
)

// UserUseCases is implemented by application.UserService.
type UserUseCases interface {
	Register(ctx context.Context, in application.RegisterInput) (*application.AuthResult, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*application.AuthResult, error)
	VerifyEmailLink(ctx context.Context, userID, token string) error
	VerifyEmailCode(ctx context.Context, userID, code string) (*entity.User, error)
	ResendVerification(ctx context.Context, email string) error
	Update(ctx context.Context, id application.Identity, userID string, in application.UpdateUserInput, img *application.Image) (*entity.User, error)
	UpdatePassword(ctx context.Context, id application.Identity, in application.UpdatePasswordInput) error
	Delete(ctx context.Context, id application.Identity) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error
	Info(ctx context.Context, id application.Identity) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Detail(ctx context.Context, userID string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Search(ctx context.Context, id application.Identity, q string, size int) ([]map[string]any, error)
	AdminStats(ctx context.Context, id application.Identity) (*application.AdminStats, error)
}

// Redirects are the frontend pages shown after link verification.
type Redirects struct {
	Verified string
	Invalid  string
}

type UserHandler struct {
	Svc       UserUseCases
	Logger    logrus.FieldLogger
	Cookies   *helpers.Manager
	Redirects Redirects
}

func NewUserHandler(svc UserUseCases, logger logrus.FieldLogger, cookies *helpers.Manager, redirects Redirects) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies, Redirects: redirects}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type emailRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type verifyCodeRequest struct {
	UserID string `json:"user_id" form:"user_id" binding:"required"`
	Code   string `json:"code" form:"code" binding:"required"`
}

type resetPasswordRequest struct {
	Token           string `json:"token" form:"token"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

type authPayload struct {
	Token string `json:"token,omitempty"`
	User  any    `json:"user"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if !bind(c, &in) {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusCreated, authPayload{Token: res.Token, User: res.User}, "Please Check and Verify Your Email", map[string]any{"expires_at": res.ExpiresAt})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	ident := req.Email
	if ident == "" {
		ident = req.Username
	}
	res, err := h.Svc.Login(c.Request.Context(), ident, req.Password)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, authPayload{Token: res.Token, User: res.User.Summary()}, "Success", map[string]any{"expires_at": res.ExpiresAt})
}

// VerifyEmail handles the emailed link and redirects to the frontend.
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	err := h.Svc.VerifyEmailLink(c.Request.Context(), c.Query("user_id"), c.Query("token"))
	if err != nil {
		if h.Redirects.Invalid != "" {
			c.Redirect(http.StatusFound, h.Redirects.Invalid)
			return
		}
		RespondError(c, h.Logger, err)
		return
	}
	if h.Redirects.Verified != "" {
		c.Redirect(http.StatusFound, h.Redirects.Verified)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Email verified", nil)
}

func (h *UserHandler) VerifyEmailCode(c *gin.Context) {
	var req verifyCodeRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.VerifyEmailCode(c.Request.Context(), req.UserID, req.Code)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Email verified", nil)
}

func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Verification email sent", nil)
}

func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password reset link sent to your email", nil)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password reset successful", nil)
}

// Update accepts multipart form fields plus an optional img_profile file.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var in application.UpdateUserInput
	if !bind(c, &in) {
		return
	}

	var img *application.Image
	if fh, err := c.FormFile("img_profile"); err == nil {
		f, err := fh.Open()
		if err != nil {
			RespondError(c, h.Logger, err)
			return
		}
		defer func() { _ = f.Close() }()
		img = &application.Image{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Reader: f}
	}

	u, err := h.Svc.Update(c.Request.Context(), id, id.UserID, in, img)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Success", nil)
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var in application.UpdatePasswordInput
	if !bind(c, &in) {
		return
	}
	if err := h.Svc.UpdatePassword(c.Request.Context(), id, in); err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Success", nil)
}

func (h *UserHandler) Info(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	u, err := h.Svc.Info(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Success", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "Successfully retrieved all users", nil)
}

func (h *UserHandler) Detail(c *gin.Context) {
	u, err := h.Svc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Successfully retrieved user", nil)
}

func (h *UserHandler) FindByUsername(c *gin.Context) {
	u, err := h.Svc.FindByUsername(c.Request.Context(), c.Query("username"))
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Success", nil)
}

func (h *UserHandler) FindByEmail(c *gin.Context) {
	u, err := h.Svc.FindByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Success", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), id, c.Query("q"), size)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "Success", map[string]any{"count": len(hits)})
}

func (h *UserHandler) AppStats(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	stats, err := h.Svc.AdminStats(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "Success", nil)
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "User Logged Out", nil)
}
