package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/job-tracker-api/internal/interface/http"
	"github.com/oksasatya/job-tracker-api/internal/interface/middleware"
)

// Limits configures the public per-IP limiters.
type Limits struct {
	Register       int
	RegisterWindow time.Duration
}

const (
	publicLimit  = 30
	publicWindow = 15 * time.Minute
)

// UserModule mounts /users.
// Public: register, login, verify, verify-email, resend-verification,
// forgot-password, reset-password, email, logout.
// Session: update, update-password, delete (non-demo), info, list, detail, username.
// Admin: search, app-stats.
type UserModule struct {
	Handler   *handlers.UserHandler
	Redis     *redis.Client
	Protected []gin.HandlerFunc
	Limits    Limits
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, protected []gin.HandlerFunc, limits Limits) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, Protected: protected, Limits: limits}
}

func (m *UserModule) limit(max int, window time.Duration) gin.HandlerFunc {
	return middleware.RateLimit(m.Redis, max, window, middleware.KeyByIPAndPath(), nil)
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	users.POST("/register", m.limit(m.Limits.Register, m.Limits.RegisterWindow), m.Handler.Register)
	users.POST("/login", m.limit(publicLimit, publicWindow), m.Handler.Login)
	users.POST("/forgot-password", m.limit(publicLimit, publicWindow), m.Handler.ForgotPassword)
	users.POST("/reset-password", m.limit(publicLimit, publicWindow), m.Handler.ResetPassword)
	users.GET("/verify", m.Handler.VerifyEmail)
	users.POST("/verify-email", m.limit(publicLimit, publicWindow), m.Handler.VerifyEmailCode)
	users.POST("/resend-verification", m.limit(publicLimit, publicWindow), m.Handler.ResendVerification)
	users.GET("/email", m.Handler.FindByEmail)
	users.GET("/logout", m.Handler.Logout)

	auth := users.Group("", m.Protected...)
	{
		auth.PATCH("/update", m.Handler.Update)
		auth.POST("/update-password", m.Handler.UpdatePassword)
		auth.DELETE("/delete", middleware.DemoGuard(), m.Handler.Delete)
		auth.GET("/info", m.Handler.Info)
		auth.GET("/", m.Handler.List)
		auth.GET("/detail/:id", m.Handler.Detail)
		auth.GET("/username", m.Handler.FindByUsername)
		auth.GET("/search", middleware.RequireAdmin(), m.Handler.Search)
		auth.GET("/app-stats", middleware.RequireAdmin(), m.Handler.AppStats)
	}
}
