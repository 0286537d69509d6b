package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/internal/container"
	gcsinfra "github.com/oksasatya/job-tracker-api/internal/infrastructure/gcs"
	pginfra "github.com/oksasatya/job-tracker-api/internal/infrastructure/postgres"
	"github.com/oksasatya/job-tracker-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/job-tracker-api/internal/interface/http"
	"github.com/oksasatya/job-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/job-tracker-api/internal/router/modules"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
)

// Services are the application services built from the container; main
// reuses them for background work such as token purging.
type Services struct {
	Users *application.UserService
	Jobs  *application.JobService
}

// BuildServices wires repositories and adapters into the application services.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	jobs := pginfra.NewJobRepository(pool, cfg.StatsTimezone)
	tx := pginfra.NewTxManager(pool)

	deps := application.UserServiceDeps{
		Users:        users,
		Jobs:         jobs,
		VerifyTokens: pginfra.NewVerificationTokenRepository(pool),
		ResetTokens:  pginfra.NewPasswordResetRepository(pool),
		Tx:           tx,
		Hasher:       helpers.NewBcryptHasher(0),
		Tokens:       container.GetJWT(),
		Logger:       logger,
	}
	// optional adapters stay nil interfaces when unconfigured
	if n := container.GetNotifier(); n != nil {
		deps.Notifier = n
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		deps.Images = gcsinfra.NewImageStore(gcs, cfg.GCSBucket, cfg.GCSFolder)
	}
	if es := container.GetES(); es != nil && cfg.ESUsersIndex != "" {
		deps.Indexer = search.NewUserIndex(es, cfg.ESUsersIndex)
	}

	return Services{
		Users: application.NewUserService(deps, application.UserServiceConfig{
			BackendURL:     cfg.BackendURL,
			FrontendURL:    cfg.FrontendURL,
			VerifyTokenTTL: cfg.VerifyTokenTTL,
			ResetTokenTTL:  cfg.ResetTokenTTL,
		}),
		Jobs: application.NewJobService(jobs, tx, logger, cfg.StatsLocale),
	}
}

// InitModules builds handlers for svc and registers every module.
func InitModules(r *Registry, svc Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()

	auth := middleware.Auth(pginfra.NewUserRepository(container.GetPGPool()), container.GetJWT(), cfg.DemoUserEmail)
	perUser := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByUserID(), nil)
	protected := []gin.HandlerFunc{auth, perUser}

	userHandler := handlers.NewUserHandler(svc.Users, logger, helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure), handlers.Redirects{
		Verified: cfg.FrontendVerified,
		Invalid:  cfg.FrontendInvalid,
	})

	r.Add(modules.NewUserModule(userHandler, rdb, protected, modules.Limits{
		Register:       cfg.RegisterRateLimit,
		RegisterWindow: cfg.RegisterRateWin,
	}))
	r.Add(modules.NewJobModule(handlers.NewJobHandler(svc.Jobs, logger), protected))
	r.Add(modules.NewDebugModule(rdb, cfg.DebugMetricsEnabled))
}
