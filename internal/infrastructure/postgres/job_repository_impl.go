package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/internal/domain/repository"
)

const jobColumns = `id::text, company, position, status, job_type, job_location,
	created_at, created_by::text, updated_at, COALESCE(updated_by::text, ''),
	deleted_at, COALESCE(deleted_by::text, '')`

type JobRepository struct {
	pool *pgxpool.Pool
	// statsTZ is the IANA zone used to bucket applications by month.
	statsTZ string
}

func NewJobRepository(pool *pgxpool.Pool, statsTZ string) *JobRepository {
	if statsTZ == "" {
		statsTZ = "UTC"
	}
	return &JobRepository{pool: pool, statsTZ: statsTZ}
}

func scanJob(row pgx.Row) (*entity.Job, error) {
	j := &entity.Job{}
	var status, jobType string
	err := row.Scan(&j.ID, &j.Company, &j.Position, &status, &jobType, &j.JobLocation,
		&j.CreatedAt, &j.CreatedBy, &j.UpdatedAt, &j.UpdatedBy,
		&j.DeletedAt, &j.DeletedBy)
	if err != nil {
		return nil, mapError(err)
	}
	j.Status = entity.JobStatus(status)
	j.JobType = entity.JobType(jobType)
	return j, nil
}

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO jobs (company, position, status, job_type, job_location, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at
	`, j.Company, j.Position, string(j.Status), string(j.JobType), j.JobLocation, j.CreatedBy)
	return mapError(row.Scan(&j.ID, &j.CreatedAt))
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanJob(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND deleted_at IS NULL
	`, id))
}

func (r *JobRepository) Update(ctx context.Context, j *entity.Job) error {
	if !validID(j.ID) {
		return repository.ErrNotFound
	}
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE jobs
		SET company = $1, position = $2, status = $3, job_type = $4, job_location = $5,
		    updated_at = $6, updated_by = $7
		WHERE id = $8 AND deleted_at IS NULL
	`, j.Company, j.Position, string(j.Status), string(j.JobType), j.JobLocation,
		j.UpdatedAt, nullable(j.UpdatedBy), j.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) SoftDelete(ctx context.Context, id, actorID string, at time.Time) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE jobs SET deleted_at = $2, deleted_by = $3
		WHERE id = $1 AND deleted_at IS NULL
	`, id, at, nullable(actorID))
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) List(ctx context.Context, f repository.JobFilter) ([]*entity.Job, int64, error) {
	if !validID(f.OwnerID) {
		return []*entity.Job{}, 0, nil
	}
	listSQL, countSQL, listArgs, countArgs := buildJobListQuery(f)
	q := conn(ctx, r.pool)

	var total int64
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	jobs := make([]*entity.Job, 0, f.Limit)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	return jobs, total, mapError(rows.Err())
}

func (r *JobRepository) CountByStatus(ctx context.Context, ownerID string) ([]entity.StatusCount, error) {
	if ownerID != "" && !validID(ownerID) {
		return []entity.StatusCount{}, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT status, count(*)
		FROM jobs
		WHERE deleted_at IS NULL AND ($1::uuid IS NULL OR created_by = $1::uuid)
		GROUP BY status
		ORDER BY status
	`, nullable(ownerID))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.StatusCount, 0, len(entity.JobStatuses))
	for rows.Next() {
		var sc entity.StatusCount
		var status string
		if err := rows.Scan(&status, &sc.Count); err != nil {
			return nil, mapError(err)
		}
		sc.Status = entity.JobStatus(status)
		out = append(out, sc)
	}
	return out, mapError(rows.Err())
}

func (r *JobRepository) CountByMonth(ctx context.Context, ownerID string, months int) ([]entity.MonthCount, error) {
	if !validID(ownerID) {
		return []entity.MonthCount{}, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at AT TIME ZONE $2)::int AS y,
		       EXTRACT(MONTH FROM created_at AT TIME ZONE $2)::int AS m,
		       count(*)
		FROM jobs
		WHERE deleted_at IS NULL AND created_by = $1
		GROUP BY y, m
		ORDER BY y DESC, m DESC
		LIMIT $3
	`, ownerID, r.statsTZ, months)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.MonthCount, 0, months)
	for rows.Next() {
		var mc entity.MonthCount
		if err := rows.Scan(&mc.Year, &mc.Month, &mc.Count); err != nil {
			return nil, mapError(err)
		}
		out = append(out, mc)
	}
	return out, mapError(rows.Err())
}

var _ repository.JobRepository = (*JobRepository)(nil)
