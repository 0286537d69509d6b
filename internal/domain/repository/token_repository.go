package repository

import (
	"context"
	"time"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
)

type VerificationTokenRepository interface {
	// Upsert replaces any existing token for the user.
	Upsert(ctx context.Context, t *entity.EmailVerificationToken) error
	GetByUserID(ctx context.Context, userID string) (*entity.EmailVerificationToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PasswordResetRepository interface {
	Create(ctx context.Context, t *entity.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
