package repository

import (
	"context"
	"time"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
)

// JobSort names a supported ordering for job listings.
type JobSort string

const (
	JobSortRecently   JobSort = "Recently"
	JobSortOldest     JobSort = "Oldest"
	JobSortAscending  JobSort = "Ascending"
	JobSortDescending JobSort = "Descending"
	JobSortTypeAZ     JobSort = "A-Z"
	JobSortTypeZA     JobSort = "Z-A"
)

// JobFilter scopes a listing to one owner. Zero values mean "no filter".
type JobFilter struct {
	OwnerID string
	Status  entity.JobStatus
	JobType entity.JobType
	Search  string
	Sort    JobSort
	Limit   int
	Offset  int
}

type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	// GetByID returns ErrNotFound for missing or soft-deleted jobs.
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	Update(ctx context.Context, j *entity.Job) error
	SoftDelete(ctx context.Context, id, actorID string, at time.Time) error
	List(ctx context.Context, f JobFilter) ([]*entity.Job, int64, error)
	// CountByStatus aggregates live jobs; ownerID "" means all owners.
	CountByStatus(ctx context.Context, ownerID string) ([]entity.StatusCount, error)
	// CountByMonth returns the most recent `months` (year, month) groups, newest first.
	CountByMonth(ctx context.Context, ownerID string, months int) ([]entity.MonthCount, error)
}
