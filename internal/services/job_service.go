package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/apperrors"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
)

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

type JobService struct {
	DB  *gorm.DB
	Log *zap.Logger
	Now Clock
}

func NewJobService(db *gorm.DB, log *zap.Logger) *JobService {
	return &JobService{
		DB:  db,
		Log: log,
		Now: utcNow,
	}
}

// List returns non-deleted jobs, newest first, with their application counts.
func (s *JobService) List(ctx context.Context) ([]dtos.JobListItem, error) {
	rows := []dtos.JobListItem{}
	err := s.DB.WithContext(ctx).
		Model(&models.Job{}).
		Select("jobs.id, jobs.title, jobs.department, jobs.description, jobs.location, jobs.status, jobs.created_at, COUNT(applications.id) AS application_count").
		Joins("LEFT JOIN applications ON applications.job_id = jobs.id").
		Group("jobs.id").
		Order("jobs.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return rows, nil
}

// GetByID returns a non-deleted job with its applications (newest first),
// each carrying its candidate.
func (s *JobService) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("applications.created_at DESC")
		}).
		Preload("Applications.Candidate").
		First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.Applications == nil {
		job.Applications = []models.Application{}
	}
	return &job, nil
}

func (s *JobService) Create(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	status := req.Status
	if status == "" {
		status = models.JobStatusDraft
	}
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid job status", map[string]any{"status": string(status)})
	}
	title, department := req.Title, req.Department
	if err := trimRequired(map[string]*string{"title": &title, "department": &department}); err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:       title,
		Department:  department,
		Description: req.Description,
		Location:    req.Location,
		Status:      status,
	}
	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.Log.Info("Job created", zap.String("job_id", job.ID), zap.String("status", string(job.Status)))
	return job, nil
}

// Update replaces the editable fields of a non-deleted job.
func (s *JobService) Update(ctx context.Context, id string, req *dtos.JobUpdateRequest) (*models.Job, error) {
	if !req.Status.Valid() {
		return nil, apperrors.Validation("Invalid job status", map[string]any{"status": string(req.Status)})
	}
	title, department := req.Title, req.Department
	if err := trimRequired(map[string]*string{"title": &title, "department": &department}); err != nil {
		return nil, err
	}
	job, err := s.updateJob(ctx, id, map[string]any{
		"title":       title,
		"department":  department,
		"description": req.Description,
		"location":    req.Location,
		"status":      req.Status,
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("Job updated", zap.String("job_id", id))
	return job, nil
}

// UpdateStatus changes only the status of a non-deleted job.
func (s *JobService) UpdateStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid job status", map[string]any{"status": string(status)})
	}
	job, err := s.updateJob(ctx, id, map[string]any{"status": status})
	if err != nil {
		return nil, err
	}

	s.Log.Info("Job status changed", zap.String("job_id", id), zap.String("status", string(status)))
	return job, nil
}

func (s *JobService) updateJob(ctx context.Context, id string, fields map[string]any) (*models.Job, error) {
	fields["updated_at"] = s.Now()

	var job models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Job{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return fmt.Errorf("update job: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Job not found")
		}
		return tx.First(&job, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Delete soft-deletes a job. Its applications are left in place.
func (s *JobService) Delete(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Job{})
		if res.Error != nil {
			return fmt.Errorf("delete job: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Job not found")
		}
		return tx.Unscoped().First(&job, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("Job deleted", zap.String("job_id", id))
	return &job, nil
}
