package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/job-tracker-api/internal/interface/middleware"
)

// DebugModule exposes a liveness probe and, when enabled, expvar metrics.
type DebugModule struct {
	Redis   *redis.Client
	Enabled bool
}

func NewDebugModule(rdb *redis.Client, enabled bool) *DebugModule {
	return &DebugModule{Redis: rdb, Enabled: enabled}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Server is running"})
	})
	if !m.Enabled {
		return
	}
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
