package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/internal/domain/repository"
)

type VerificationTokenRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationTokenRepository(pool *pgxpool.Pool) *VerificationTokenRepository {
	return &VerificationTokenRepository{pool: pool}
}

func (r *VerificationTokenRepository) Upsert(ctx context.Context, t *entity.EmailVerificationToken) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO email_verification_tokens (user_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at
	`, t.UserID, t.Token, t.CreatedAt, t.ExpiresAt)
	return mapError(err)
}

func (r *VerificationTokenRepository) GetByUserID(ctx context.Context, userID string) (*entity.EmailVerificationToken, error) {
	if !validID(userID) {
		return nil, repository.ErrNotFound
	}
	t := &entity.EmailVerificationToken{}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT user_id::text, token, created_at, expires_at
		FROM email_verification_tokens
		WHERE user_id = $1
	`, userID).Scan(&t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *VerificationTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if !validID(userID) {
		return nil
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM email_verification_tokens WHERE user_id = $1`, userID)
	return mapError(err)
}

func (r *VerificationTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM email_verification_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected(), nil
}

type PasswordResetRepository struct {
	pool *pgxpool.Pool
}

func NewPasswordResetRepository(pool *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{pool: pool}
}

func (r *PasswordResetRepository) Create(ctx context.Context, t *entity.PasswordResetToken) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO password_reset_tokens (user_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`, t.UserID, t.Token, t.CreatedAt, t.ExpiresAt)
	return mapError(row.Scan(&t.ID))
}

func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	t := &entity.PasswordResetToken{}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id::text, user_id::text, token, created_at, expires_at
		FROM password_reset_tokens
		WHERE token = $1
	`, token).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *PasswordResetRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM password_reset_tokens WHERE token = $1`, token)
	return mapError(err)
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected(), nil
}

var (
	_ repository.VerificationTokenRepository = (*VerificationTokenRepository)(nil)
	_ repository.PasswordResetRepository     = (*PasswordResetRepository)(nil)
)
