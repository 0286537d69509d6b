package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
)

// PasswordHasher is satisfied by helpers.BcryptHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenIssuer signs session tokens; satisfied by helpers.JWTManager.
type TokenIssuer interface {
	Issue(userID, email, role string) (string, time.Time, error)
}

// Notifier queues transactional email. Calls never block on delivery and
// never report delivery failures to the caller.
type Notifier interface {
	SendVerification(name, email, link string, ttl time.Duration)
	SendWelcome(name, email string)
	SendPasswordReset(name, email, link string, ttl time.Duration)
	SendAdminNotice(event, username, email string, fields map[string]string)
}

// ImageStore keeps profile images. Upload returns the public URL and the
// object id needed for Delete.
type ImageStore interface {
	Upload(ctx context.Context, ownerID, filename, contentType string, r io.Reader) (url string, objectID string, err error)
	Delete(ctx context.Context, objectID string) error
}

// UserIndexer mirrors live users into a search index.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, userID string) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Image is an uploaded profile image.
type Image struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

type noopNotifier struct{}

func (noopNotifier) SendVerification(string, string, string, time.Duration) {}
func (noopNotifier) SendWelcome(string, string) {}
func (noopNotifier) SendPasswordReset(string, string, string, time.Duration) {}
func (noopNotifier) SendAdminNotice(string, string, string, map[string]string) {}
