package dtos

import (
	"time"

	"github.com/justsurfingit/talentra/internal/models"
)

type ApplicationCreationRequest struct {
	JobID       string `json:"job_id" binding:"required"`
	CandidateID string `json:"candidate_id" binding:"required"`
}

type ApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,oneof=APPLIED SCREENING INTERVIEW OFFER HIRED REJECTED"`
}

// ApplicationCard is a row of applications.listByJob, carrying the
// candidate fields a pipeline board renders.
type ApplicationCard struct {
	ID                  string                   `json:"id"`
	Status              models.ApplicationStatus `json:"status"`
	Notes               *string                  `json:"notes"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
	CandidateID         string                   `json:"candidate_id"`
	CandidateName       string                   `json:"candidate_name"`
	CandidateEmail      string                   `json:"candidate_email"`
	CandidateSkills     []string                 `gorm:"serializer:json" json:"candidate_skills"`
	CandidateExperience int                      `json:"candidate_experience"`
}

// ApplicationActivity is a row of applications.stale and applications.recent.
type ApplicationActivity struct {
	ID            string                   `json:"id"`
	Status        models.ApplicationStatus `json:"status"`
	UpdatedAt     time.Time                `json:"updated_at"`
	CandidateID   string                   `json:"candidate_id"`
	CandidateName string                   `json:"candidate_name"`
	JobID         string                   `json:"job_id"`
	JobTitle      string                   `json:"job_title"`
}

// Stats are the dashboard counters. "ThisWeek" values use a rolling
// 7x24h window ending at query time.
type Stats struct {
	OpenJobs             int64 `json:"open_jobs"`
	OpenJobsThisWeek     int64 `json:"open_jobs_this_week"`
	TotalCandidates      int64 `json:"total_candidates"`
	CandidatesThisWeek   int64 `json:"candidates_this_week"`
	TotalApplications    int64 `json:"total_applications"`
	ApplicationsThisWeek int64 `json:"applications_this_week"`
	InInterview          int64 `json:"in_interview"`
	InInterviewThisWeek  int64 `json:"in_interview_this_week"`
}

// TrendPoint counts applications created on one UTC day (YYYY-MM-DD).
type TrendPoint struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}
