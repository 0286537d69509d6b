package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/internal/domain/repository"
)

const userColumns = `id::text, username, email, password_hash, role, first_name, last_name,
	location, slug, img_profile, img_profile_id, is_verified,
	created_at, COALESCE(created_by::text, ''), updated_at, COALESCE(updated_by::text, ''),
	deleted_at, COALESCE(deleted_by::text, '')`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &role, &u.FirstName, &u.LastName,
		&u.Location, &u.Slug, &u.ImgProfile, &u.ImgProfileID, &u.IsVerified,
		&u.CreatedAt, &u.CreatedBy, &u.UpdatedAt, &u.UpdatedBy,
		&u.DeletedAt, &u.DeletedBy)
	if err != nil {
		return nil, mapError(err)
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role, first_name, last_name, location, slug, is_verified, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text, created_at
	`, u.Username, u.Email, u.Password, string(u.Role), u.FirstName, u.LastName, u.Location, u.Slug, u.IsVerified, nullable(u.CreatedBy))

	return mapError(row.Scan(&u.ID, &u.CreatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
	`, strings.TrimSpace(email)))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(username) = lower($1) AND deleted_at IS NULL
	`, strings.TrimSpace(username)))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error) {
	return r.exists(ctx, "username", username, excludeID)
}

// exists is only called with a fixed column name, never user input.
func (r *UserRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	var found bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE lower(`+column+`) = lower($1)
			  AND deleted_at IS NULL
			  AND ($2::uuid IS NULL OR id <> $2::uuid)
		)
	`, strings.TrimSpace(value), nullable(excludeID)).Scan(&found)
	return found, mapError(err)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	now := time.Now()
	u.UpdatedAt = &now

	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, first_name = $4, last_name = $5,
		    location = $6, slug = $7, img_profile = $8, img_profile_id = $9,
		    is_verified = $10, updated_at = $11, updated_by = $12
		WHERE id = $13 AND deleted_at IS NULL
	`, u.Username, u.Email, u.Password, u.FirstName, u.LastName,
		u.Location, u.Slug, u.ImgProfile, u.ImgProfileID,
		u.IsVerified, now, nullable(u.UpdatedBy), u.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	return r.execOne(ctx, `
		UPDATE users SET is_verified = TRUE, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash, actorID string) error {
	return r.execOne(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now(), updated_by = $3
		WHERE id = $1 AND deleted_at IS NULL
	`, id, hash, nullable(actorID))
}

func (r *UserRepository) SoftDelete(ctx context.Context, id, actorID string, at time.Time) error {
	return r.execOne(ctx, `
		UPDATE users SET deleted_at = $2, deleted_by = $3
		WHERE id = $1 AND deleted_at IS NULL
	`, id, at, nullable(actorID))
}

func (r *UserRepository) execOne(ctx context.Context, sql string, id string, args ...any) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := conn(ctx, r.pool).Exec(ctx, sql, append([]any{id}, args...)...)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE deleted_at IS NULL AND ($1 = '' OR role = $1)
		ORDER BY created_at DESC
	`, string(role))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, mapError(rows.Err())
}

func (r *UserRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	var n int64
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT count(*) FROM users WHERE deleted_at IS NULL AND role = $1
	`, string(role)).Scan(&n)
	return n, mapError(err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
