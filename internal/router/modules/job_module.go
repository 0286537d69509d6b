package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/job-tracker-api/internal/interface/http"
	"github.com/oksasatya/job-tracker-api/internal/interface/middleware"
)

// JobModule mounts /jobs; every route needs a session and mutations reject the demo user.
type JobModule struct {
	Handler   *handlers.JobHandler
	Protected []gin.HandlerFunc
}

func NewJobModule(h *handlers.JobHandler, protected []gin.HandlerFunc) *JobModule {
	return &JobModule{Handler: h, Protected: protected}
}

func (m *JobModule) Register(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs", m.Protected...)
	demo := middleware.DemoGuard()

	jobs.POST("", demo, m.Handler.Create)
	jobs.GET("", m.Handler.List)
	jobs.GET("/stats", m.Handler.Stats)
	jobs.GET("/detail/:id", m.Handler.Get)
	jobs.PATCH("/:id", demo, m.Handler.Update)
	jobs.DELETE("/:id", demo, m.Handler.Delete)
}
