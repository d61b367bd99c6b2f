package dtos

import (
	"time"

	"github.com/justsurfingit/talentra/internal/models"
)

type JobCreationRequest struct {
	Title       string  `json:"title" binding:"required,min=1"`
	Department  string  `json:"department" binding:"required,min=1"`
	Description *string `json:"description"`
	Location    *string `json:"location"`

	// Defaults to DRAFT if empty
	Status models.JobStatus `json:"status" binding:"omitempty,oneof=DRAFT OPEN CLOSED"`
}

type JobUpdateRequest struct {
	Title       string           `json:"title" binding:"required,min=1"`
	Department  string           `json:"department" binding:"required,min=1"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	Status      models.JobStatus `json:"status" binding:"required,oneof=DRAFT OPEN CLOSED"`
}

type JobStatusRequest struct {
	Status models.JobStatus `json:"status" binding:"required,oneof=DRAFT OPEN CLOSED"`
}

// JobListItem is a row of jobs.list.
type JobListItem struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Department       string           `json:"department"`
	Description      *string          `json:"description"`
	Location         *string          `json:"location"`
	Status           models.JobStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	ApplicationCount int64            `json:"application_count"`
}

// PipelineSummaryRow holds the in-flight stage counts of one open job.
// HIRED and REJECTED are intentionally absent.
type PipelineSummaryRow struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Department     string `json:"department"`
	AppliedCount   int64  `json:"applied_count"`
	ScreeningCount int64  `json:"screening_count"`
	InterviewCount int64  `json:"interview_count"`
	OfferCount     int64  `json:"offer_count"`
}
