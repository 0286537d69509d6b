package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/pkg/response"
)

// JobUseCases is implemented by application.JobService.
type JobUseCases interface {
	Create(ctx context.Context, ownerID string, in application.JobInput) (*entity.Job, error)
	List(ctx context.Context, ownerID string, q application.JobListQuery) (*application.JobListResult, error)
	Get(ctx context.Context, id application.Identity, jobID string) (*entity.Job, error)
	Update(ctx context.Context, id application.Identity, jobID string, in application.JobInput) (*entity.Job, error)
	Delete(ctx context.Context, id application.Identity, jobID string) error
	Stats(ctx context.Context, ownerID string) (*application.JobStats, error)
}

type JobHandler struct {
	Svc    JobUseCases
	Logger logrus.FieldLogger
}

func NewJobHandler(svc JobUseCases, logger logrus.FieldLogger) *JobHandler {
	return &JobHandler{Svc: svc, Logger: logger}
}

func (h *JobHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var in application.JobInput
	if !bind(c, &in) {
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), id.UserID, in)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, job, "Job created successfully", nil)
}

func (h *JobHandler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var q application.JobListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		// unparsable page/limit fall back to defaults
		q = application.JobListQuery{
			Status:  c.Query("status"),
			JobType: c.Query("jobType"),
			Search:  c.Query("search"),
			Sort:    c.Query("sort"),
		}
	}
	res, err := h.Svc.List(c.Request.Context(), id.UserID, q)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Success", nil)
}

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	job, err := h.Svc.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, job, "Success", nil)
}

func (h *JobHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var in application.JobInput
	if !bind(c, &in) {
		return
	}
	job, err := h.Svc.Update(c.Request.Context(), id, c.Param("id"), in)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, job, "Update Job is Success", nil)
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Successfully delete a job", nil)
}

func (h *JobHandler) Stats(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	stats, err := h.Svc.Stats(c.Request.Context(), id.UserID)
	if err != nil {
		RespondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "Success", nil)
}
