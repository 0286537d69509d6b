package entity

import "time"

// EmailVerificationToken is unique per user and expires after a fixed TTL.
type EmailVerificationToken struct {
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (t *EmailVerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// PasswordResetToken is single use.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
