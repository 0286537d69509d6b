package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	repo "github.com/oksasatya/job-tracker-api/internal/domain/repository"
	"github.com/oksasatya/job-tracker-api/pkg/apperror"
)

const (
	MsgProvideAllJobValues = "Please Provide All Values"
	MsgJobReadDenied       = "Access denied. You do not have permission to view this job."

	DefaultJobPageLimit = 10
	MaxJobPageLimit     = 100
	StatsMonths         = 6

	// filterAny is what the frontend sends for an unselected dropdown.
	filterAny = "Select"
)

type JobService struct {
	Jobs   repo.JobRepository
	Tx     repo.TxManager
	Logger logrus.FieldLogger
	Locale string
	now    func() time.Time
}

func NewJobService(jobs repo.JobRepository, tx repo.TxManager, logger logrus.FieldLogger, locale string) *JobService {
	return &JobService{Jobs: jobs, Tx: tx, Logger: logger, Locale: locale, now: time.Now}
}

// JobInput is the body of create and update requests. Empty optional
// fields take defaults on create and keep their value on update.
type JobInput struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Status      string `json:"status"`
	JobType     string `json:"jobType"`
	JobLocation string `json:"jobLocation"`
}

func (in *JobInput) trim() {
	in.Company = strings.TrimSpace(in.Company)
	in.Position = strings.TrimSpace(in.Position)
	in.Status = strings.TrimSpace(in.Status)
	in.JobType = strings.TrimSpace(in.JobType)
	in.JobLocation = strings.TrimSpace(in.JobLocation)
}

func (in *JobInput) validate() error {
	if in.Company == "" || in.Position == "" {
		return apperror.BadRequest(MsgProvideAllJobValues)
	}
	if len([]rune(in.Position)) > entity.MaxPositionLength {
		return apperror.BadRequest(fmt.Sprintf("Position cannot be more than %d characters", entity.MaxPositionLength))
	}
	if in.Status != "" && !entity.JobStatus(in.Status).Valid() {
		return apperror.BadRequest(fmt.Sprintf("%q is not a valid job status", in.Status))
	}
	if in.JobType != "" && !entity.JobType(in.JobType).Valid() {
		return apperror.BadRequest(fmt.Sprintf("%q is not a valid job type", in.JobType))
	}
	return nil
}

// apply copies non-empty fields onto j.
func (in *JobInput) apply(j *entity.Job) {
	j.Company = in.Company
	j.Position = in.Position
	if in.Status != "" {
		j.Status = entity.JobStatus(in.Status)
	}
	if in.JobType != "" {
		j.JobType = entity.JobType(in.JobType)
	}
	if in.JobLocation != "" {
		j.JobLocation = in.JobLocation
	}
}

func (s *JobService) Create(ctx context.Context, ownerID string, in JobInput) (*entity.Job, error) {
	in.trim()
	if err := in.validate(); err != nil {
		return nil, err
	}
	j := &entity.Job{
		Status:      entity.JobStatusPending,
		JobType:     entity.JobTypeFullTime,
		JobLocation: entity.DefaultJobLocation,
		CreatedBy:   ownerID,
	}
	in.apply(j)

	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.Jobs.Create(ctx, j)
	})
	if err != nil {
		return nil, translate(err, "Job creation failed")
	}
	s.Logger.WithFields(logrus.Fields{"job_id": j.ID, "user_id": ownerID}).Debug("job created")
	return j, nil
}

type JobListQuery struct {
	Status  string `form:"status"`
	JobType string `form:"jobType"`
	Search  string `form:"search"`
	Sort    string `form:"sort"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

type JobListResult struct {
	Jobs        []*entity.Job `json:"jobs"`
	CurrentPage int           `json:"currentPage"`
	TotalJobs   int64         `json:"totalJobs"`
	NumOfPages  int           `json:"numOfPages"`
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultJobPageLimit
	}
	if limit > MaxJobPageLimit {
		limit = MaxJobPageLimit
	}
	return page, limit
}

func (s *JobService) List(ctx context.Context, ownerID string, q JobListQuery) (*JobListResult, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	f := repo.JobFilter{
		OwnerID: ownerID,
		Search:  strings.TrimSpace(q.Search),
		Sort:    repo.JobSort(q.Sort),
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}
	if st := strings.TrimSpace(q.Status); st != "" && st != filterAny {
		f.Status = entity.JobStatus(st)
	}
	if jt := strings.TrimSpace(q.JobType); jt != "" && jt != filterAny {
		f.JobType = entity.JobType(jt)
	}

	jobs, total, err := s.Jobs.List(ctx, f)
	if err != nil {
		return nil, translate(err, "Failed to fetch jobs")
	}
	return &JobListResult{
		Jobs:        jobs,
		CurrentPage: page,
		TotalJobs:   total,
		NumOfPages:  int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *JobService) Get(ctx context.Context, id Identity, jobID string) (*entity.Job, error) {
	j, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, translate(err, "Job does not exist with id: "+jobID)
	}
	if !CanRead(id, j.CreatedBy) {
		return nil, apperror.Forbidden(MsgJobReadDenied)
	}
	return j, nil
}

func (s *JobService) Update(ctx context.Context, id Identity, jobID string, in JobInput) (*entity.Job, error) {
	in.trim()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *entity.Job
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		j, err := s.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if err := CheckPermissions(id.UserID, j.CreatedBy); err != nil {
			return err
		}
		in.apply(j)
		now := s.now()
		j.UpdatedAt = &now
		j.UpdatedBy = id.UserID
		if err := s.Jobs.Update(ctx, j); err != nil {
			return err
		}
		updated = j
		return nil
	})
	if err != nil {
		return nil, translate(err, "Edit Job Failed, Job does not exist with id: "+jobID)
	}
	return updated, nil
}

func (s *JobService) Delete(ctx context.Context, id Identity, jobID string) error {
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		j, err := s.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if err := CheckPermissions(id.UserID, j.CreatedBy); err != nil {
			return err
		}
		return s.Jobs.SoftDelete(ctx, jobID, id.UserID, s.now())
	})
	if err != nil {
		return translate(err, "Delete Job Failed, Job does not exist with id: "+jobID)
	}
	s.Logger.WithFields(logrus.Fields{"job_id": jobID, "user_id": id.UserID}).Debug("job soft-deleted")
	return nil
}

// StatusBuckets is the zero-filled per-status count.
type StatusBuckets struct {
	Pending   int64 `json:"pending"`
	Interview int64 `json:"interview"`
	Technical int64 `json:"technical"`
	Declined  int64 `json:"declined"`
	Accepted  int64 `json:"accepted"`
}

func (b StatusBuckets) Total() int64 {
	return b.Pending + b.Interview + b.Technical + b.Declined + b.Accepted
}

func bucketsFrom(rows []entity.StatusCount) StatusBuckets {
	var b StatusBuckets
	for _, r := range rows {
		switch r.Status {
		case entity.JobStatusPending:
			b.Pending += r.Count
		case entity.JobStatusInterview:
			b.Interview += r.Count
		case entity.JobStatusTechnical:
			b.Technical += r.Count
		case entity.JobStatusDeclined:
			b.Declined += r.Count
		case entity.JobStatusAccepted:
			b.Accepted += r.Count
		}
	}
	return b
}

type MonthlyApplications struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type JobStats struct {
	Stats               []entity.StatusCount  `json:"stats"`
	DefaultStats        StatusBuckets         `json:"defaultStats"`
	MonthlyApplications []MonthlyApplications `json:"monthlyApplications"`
}

// Stats aggregates the owner's live jobs. Months are newest first.
func (s *JobService) Stats(ctx context.Context, ownerID string) (*JobStats, error) {
	rows, err := s.Jobs.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, translate(err, "Failed to fetch job stats")
	}
	months, err := s.Jobs.CountByMonth(ctx, ownerID, StatsMonths)
	if err != nil {
		return nil, translate(err, "Failed to fetch job stats")
	}

	out := &JobStats{
		Stats:               rows,
		DefaultStats:        bucketsFrom(rows),
		MonthlyApplications: make([]MonthlyApplications, 0, len(months)),
	}
	if out.Stats == nil {
		out.Stats = []entity.StatusCount{}
	}
	for _, m := range months {
		out.MonthlyApplications = append(out.MonthlyApplications, MonthlyApplications{
			Date:  MonthLabel(s.Locale, m.Year, m.Month),
			Count: m.Count,
		})
	}
	return out, nil
}
