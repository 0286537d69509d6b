package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, time.Hour, cfg.VerifyTokenTTL)
	assert.Equal(t, 3*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 10, cfg.RegisterRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.RegisterRateWin)
	assert.Empty(t, cfg.ESAddrs())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_LIFETIME", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("MAIL_DRIVER", "SMTP")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.io, ,https://b.io ")
	t.Setenv("DB_USER", "jt")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "jobs")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()
	assert.Equal(t, 2*time.Hour, cfg.JWTLifetime)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "smtp", cfg.MailDriver)
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, cfg.CORSOrigins())
	assert.Equal(t, "postgres://jt:pw@db:5433/jobs?sslmode=require", cfg.PostgresDSN())
}
