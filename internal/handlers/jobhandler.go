package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/services"
)

// JobHandler serves the jobs.* procedures.
type JobHandler struct {
	JobService         *services.JobService
	ApplicationService *services.ApplicationService
	ReportService      *services.ReportService
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(j *services.JobService, a *services.ApplicationService, r *services.ReportService) *JobHandler {
	return &JobHandler{
		JobService:         j,
		ApplicationService: a,
		ReportService:      r,
	}
}

// ListJobs is GET /jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob is GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.JobService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob is POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	job, err := h.JobService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob is PUT /jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	job, err := h.JobService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// UpdateJobStatus is PATCH /jobs/:id/status
func (h *JobHandler) UpdateJobStatus(c *gin.Context) {
	var req dtos.JobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	job, err := h.JobService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob is DELETE /jobs/:id. The job is soft-deleted.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	job, err := h.JobService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// PipelineSummary is GET /jobs/pipeline-summary
func (h *JobHandler) PipelineSummary(c *gin.Context) {
	rows, err := h.ReportService.PipelineSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListJobApplications is GET /jobs/:id/applications
func (h *JobHandler) ListJobApplications(c *gin.Context) {
	cards, err := h.ApplicationService.ListByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}
