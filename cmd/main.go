package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/job-tracker-api/config"
	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/internal/container"
	pginfra "github.com/oksasatya/job-tracker-api/internal/infrastructure/postgres"
	"github.com/oksasatya/job-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/job-tracker-api/internal/router"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
	"github.com/oksasatya/job-tracker-api/pkg/mailer"
	"github.com/oksasatya/job-tracker-api/pkg/mailer/templates"
	"github.com/oksasatya/job-tracker-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
			Release:          cfg.AppName,
		}); err != nil {
			logger.WithError(err).Warn("sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		// the rate limiter fails open
		logger.WithError(err).Warn("redis unavailable; rate limiting disabled until it recovers")
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	} else {
		logger.Warn("GCS_BUCKET not set; profile image upload disabled")
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch client init failed; user search disabled")
		} else {
			container.SetES(es)
		}
	}

	transport, closeTransport := buildMailTransport(cfg, logger)
	defer closeTransport()
	dispatcher := mailer.NewDispatcher(transport, logger, 0, 0)
	brand := templates.Brand{AppName: cfg.AppName, CompanyName: cfg.CompanyName, LogoURL: cfg.LogoURL, SupportURL: cfg.SupportURL}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTLifetime))
	container.SetNotifier(mailer.NewNotifier(dispatcher, brand, cfg.AdminEmail))

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP(), middleware.Recovery(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	r.NoRoute(middleware.NotFound())
	r.MaxMultipartMemory = 8 << 20

	services := router.BuildServices()
	reg := router.NewRegistry(r)
	router.InitModules(reg, services)
	reg.RegisterAll()

	go purgeTokens(ctx, services.Users, cfg.TokenPurgeEvery, logger)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	if err := dispatcher.Close(ctxShutdown); err != nil {
		logger.WithError(err).Warn("mail dispatcher did not drain")
	}
	logger.Info("server exited properly")
}

// buildMailTransport picks how queued emails leave the process:
// disabled -> log only, RabbitMQ reachable -> queue for cmd/email_worker,
// otherwise -> send in-process through the configured provider.
func buildMailTransport(cfg *config.Config, logger *logrus.Logger) (mailer.Transport, func()) {
	noop := func() {}
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; emails will only be logged")
		return mailer.LogTransport{Log: logger}, noop
	}
	if cfg.RabbitMQURL != "" {
		rc, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err == nil {
			logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("emails will be queued on RabbitMQ")
			return mailer.QueueTransport{Publisher: rc}, rc.Close
		}
		logger.WithError(err).Warn("rabbitmq unavailable; sending emails in-process")
	}
	sender, err := mailer.NewSender(senderConfig(cfg))
	if err != nil {
		logger.WithError(err).Warn("no mail provider; emails will only be logged")
		return mailer.LogTransport{Log: logger}, noop
	}
	return mailer.DirectTransport{Sender: sender}, noop
}

func senderConfig(cfg *config.Config) mailer.SenderConfig {
	return mailer.SenderConfig{
		Driver:        cfg.MailDriver,
		MailgunDomain: cfg.MailgunDomain,
		MailgunAPIKey: cfg.MailgunAPIKey,
		MailgunSender: cfg.MailgunSender,
		SMTPHost:      cfg.SMTPHost,
		SMTPPort:      cfg.SMTPPort,
		SMTPUser:      cfg.SMTPUser,
		SMTPPassword:  cfg.SMTPPassword,
		From:          cfg.MailFrom,
	}
}

func purgeTokens(ctx context.Context, users *application.UserService, every time.Duration, logger *logrus.Logger) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := users.PurgeExpiredTokens(ctx)
			if err != nil {
				helpers.LogError(logger, "token purge failed", err, nil)
				continue
			}
			if n > 0 {
				helpers.LogInfo(logger, "expired tokens purged", logrus.Fields{"removed": n})
			}
		}
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
