package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/apperrors"
	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
)

type ApplicationService struct {
	DB  *gorm.DB
	Log *zap.Logger
	Now Clock
}

func NewApplicationService(db *gorm.DB, log *zap.Logger) *ApplicationService {
	return &ApplicationService{DB: db, Log: log, Now: utcNow}
}

// Create links a candidate to a job at status APPLIED.
func (s *ApplicationService) Create(ctx context.Context, req *dtos.ApplicationCreationRequest) (*models.Application, error) {
	db := s.DB.WithContext(ctx)

	// Soft-deleted jobs are not found here.
	if err := db.Select("id").First(&models.Job{}, "id = ?", req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Job not found")
		}
		return nil, fmt.Errorf("lookup job: %w", err)
	}
	if err := db.Select("id").First(&models.Candidate{}, "id = ?", req.CandidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Candidate not found")
		}
		return nil, fmt.Errorf("lookup candidate: %w", err)
	}

	now := s.Now()
	app := &models.Application{
		JobID:       req.JobID,
		CandidateID: req.CandidateID,
		Status:      models.StatusApplied,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := db.Create(app).Error
	if database.IsUniqueViolation(err) {
		return nil, apperrors.Conflict("Candidate has already applied to this job", err)
	}
	if database.IsForeignKeyViolation(err) {
		return nil, apperrors.NotFound("Job or candidate not found")
	}
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.Log.Info("Application created",
		zap.String("application_id", app.ID),
		zap.String("job_id", app.JobID),
		zap.String("candidate_id", app.CandidateID))
	return app, nil
}

// UpdateStatus moves an application to any stage and refreshes updated_at.
//
// There are no transition rules: backward moves and same-stage moves are
// accepted. Concurrent writers are last-write-wins.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid application status", map[string]any{"status": string(status)})
	}

	var app models.Application
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Application{}).
			Where("id = ?", id).
			Updates(map[string]any{"status": status, "updated_at": s.Now()})
		if res.Error != nil {
			return fmt.Errorf("update application status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Application not found")
		}
		return tx.First(&app, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("Application status changed",
		zap.String("application_id", id),
		zap.String("status", string(status)))
	return &app, nil
}

// ListByJob returns the board cards of one job, newest first.
func (s *ApplicationService) ListByJob(ctx context.Context, jobID string) ([]dtos.ApplicationCard, error) {
	var rows []dtos.ApplicationCard
	err := s.DB.WithContext(ctx).
		Table("applications").
		Select("applications.id, applications.status, applications.notes, applications.created_at, applications.updated_at, candidates.id AS candidate_id, candidates.name AS candidate_name, candidates.email AS candidate_email, candidates.skills AS candidate_skills, candidates.experience AS candidate_experience").
		Joins("JOIN candidates ON candidates.id = applications.candidate_id").
		Where("applications.job_id = ?", jobID).
		Order("applications.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list applications by job: %w", err)
	}
	if rows == nil {
		rows = []dtos.ApplicationCard{}
	}
	return rows, nil
}
