package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
)

const (
	statsWindow = 7 * 24 * time.Hour
	trendWindow = 30 * 24 * time.Hour
	staleLimit  = 10
	recentLimit = 10
)

// ReportService answers the read-only dashboard queries.
type ReportService struct {
	DB  *gorm.DB
	Log *zap.Logger
	Now Clock
}

func NewReportService(db *gorm.DB, log *zap.Logger) *ReportService {
	return &ReportService{DB: db, Log: log, Now: utcNow}
}

// Stats computes the dashboard counters over a rolling seven-day window.
func (s *ReportService) Stats(ctx context.Context) (*dtos.Stats, error) {
	since := s.Now().Add(-statsWindow)
	db := s.DB.WithContext(ctx)

	type jobCounts struct {
		OpenJobs         int64
		OpenJobsThisWeek int64
	}
	var jobs jobCounts
	err := db.Raw(`SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS open_jobs,
			COALESCE(SUM(CASE WHEN status = ? AND created_at >= ? THEN 1 ELSE 0 END), 0) AS open_jobs_this_week
		FROM jobs
		WHERE deleted_at IS NULL`,
		models.JobStatusOpen, models.JobStatusOpen, since).Scan(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}

	type candidateCounts struct {
		TotalCandidates    int64
		CandidatesThisWeek int64
	}
	var candidates candidateCounts
	err = db.Raw(`SELECT
			COUNT(*) AS total_candidates,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS candidates_this_week
		FROM candidates`,
		since).Scan(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("candidate stats: %w", err)
	}

	type applicationCounts struct {
		TotalApplications    int64
		ApplicationsThisWeek int64
		InInterview          int64
		InInterviewThisWeek  int64
	}
	var apps applicationCounts
	err = db.Raw(`SELECT
			COUNT(*) AS total_applications,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS applications_this_week,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_interview,
			COALESCE(SUM(CASE WHEN status = ? AND updated_at >= ? THEN 1 ELSE 0 END), 0) AS in_interview_this_week
		FROM applications`,
		since, models.StatusInterview, models.StatusInterview, since).Scan(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}

	return &dtos.Stats{
		OpenJobs:             jobs.OpenJobs,
		OpenJobsThisWeek:     jobs.OpenJobsThisWeek,
		TotalCandidates:      candidates.TotalCandidates,
		CandidatesThisWeek:   candidates.CandidatesThisWeek,
		TotalApplications:    apps.TotalApplications,
		ApplicationsThisWeek: apps.ApplicationsThisWeek,
		InInterview:          apps.InInterview,
		InInterviewThisWeek:  apps.InInterviewThisWeek,
	}, nil
}

// Trend counts applications created per UTC day over the last thirty days.
// Days without applications are absent.
func (s *ReportService) Trend(ctx context.Context) ([]dtos.TrendPoint, error) {
	since := s.Now().Add(-trendWindow)
	day := database.DayExpr(s.DB, "created_at")

	points := []dtos.TrendPoint{}
	err := s.DB.WithContext(ctx).
		Model(&models.Application{}).
		Select(day+" AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group(day).
		Order(day).
		Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("application trend: %w", err)
	}
	return points, nil
}

// Stale returns the applications in APPLIED, SCREENING or OFFER that have
// gone longest without an update.
func (s *ReportService) Stale(ctx context.Context) ([]dtos.ApplicationActivity, error) {
	rows := []dtos.ApplicationActivity{}
	err := s.activityQuery(ctx).
		Where("applications.status IN ?", models.StaleStatuses).
		Order("applications.updated_at ASC").
		Order("applications.id ASC").
		Limit(staleLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("stale applications: %w", err)
	}
	return rows, nil
}

// Recent returns the most recently updated applications.
func (s *ReportService) Recent(ctx context.Context) ([]dtos.ApplicationActivity, error) {
	rows := []dtos.ApplicationActivity{}
	err := s.activityQuery(ctx).
		Order("applications.updated_at DESC").
		Order("applications.id ASC").
		Limit(recentLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}
	return rows, nil
}

func (s *ReportService) activityQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("applications").
		Select("applications.id, applications.status, applications.updated_at, candidates.id AS candidate_id, candidates.name AS candidate_name, jobs.id AS job_id, jobs.title AS job_title").
		Joins("JOIN candidates ON candidates.id = applications.candidate_id").
		Joins("JOIN jobs ON jobs.id = applications.job_id")
}

// PipelineSummary returns per-stage counts for every open, non-deleted job,
// newest job first. HIRED and REJECTED are not counted.
func (s *ReportService) PipelineSummary(ctx context.Context) ([]dtos.PipelineSummaryRow, error) {
	rows := []dtos.PipelineSummaryRow{}
	err := s.DB.WithContext(ctx).
		Model(&models.Job{}).
		Select(`jobs.id, jobs.title, jobs.department,
			COALESCE(SUM(CASE WHEN applications.status = ? THEN 1 ELSE 0 END), 0) AS applied_count,
			COALESCE(SUM(CASE WHEN applications.status = ? THEN 1 ELSE 0 END), 0) AS screening_count,
			COALESCE(SUM(CASE WHEN applications.status = ? THEN 1 ELSE 0 END), 0) AS interview_count,
			COALESCE(SUM(CASE WHEN applications.status = ? THEN 1 ELSE 0 END), 0) AS offer_count`,
			models.StatusApplied, models.StatusScreening, models.StatusInterview, models.StatusOffer).
		Joins("LEFT JOIN applications ON applications.job_id = jobs.id").
		Where("jobs.status = ?", models.JobStatusOpen).
		Group("jobs.id, jobs.title, jobs.department, jobs.created_at").
		Order("jobs.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("pipeline summary: %w", err)
	}
	return rows, nil
}
