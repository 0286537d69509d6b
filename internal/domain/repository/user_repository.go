package repository

import (
	"context"
	"time"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
)

// UserRepository defines user persistence. All lookups ignore soft-deleted
// rows unless stated otherwise.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// ExistsByEmail / ExistsByUsername ignore excludeID when non-empty.
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error)
	Update(ctx context.Context, u *entity.User) error
	SetVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash, actorID string) error
	SoftDelete(ctx context.Context, id, actorID string, at time.Time) error
	// List returns live users, optionally restricted to one role.
	List(ctx context.Context, role entity.Role) ([]*entity.User, error)
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
