package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/apperrors"
	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
)

type CandidateService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewCandidateService(db *gorm.DB, log *zap.Logger) *CandidateService {
	return &CandidateService{DB: db, Log: log}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns candidates, newest first, with application counts.
//
// Search matches a case-insensitive substring of name or email. Skill
// keeps candidates holding that tag (case-insensitive). MinExp keeps
// candidates with at least that many years.
func (s *CandidateService) List(ctx context.Context, filter dtos.CandidateFilter) ([]dtos.CandidateListItem, error) {
	q := s.DB.WithContext(ctx).
		Table("candidates").
		Select("candidates.id, candidates.name, candidates.email, candidates.phone, candidates.skills, candidates.experience, candidates.notes, candidates.created_at, COUNT(applications.id) AS application_count").
		Joins("LEFT JOIN applications ON applications.candidate_id = candidates.id")

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where(`(LOWER(candidates.name) LIKE ? ESCAPE '\' OR LOWER(candidates.email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if filter.MinExp != nil {
		q = q.Where("candidates.experience >= ?", *filter.MinExp)
	}

	var rows []dtos.CandidateListItem
	err := q.Group("candidates.id").
		Order("candidates.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	// Skills are stored serialized, so the tag filter runs here.
	skill := strings.TrimSpace(filter.Skill)
	out := make([]dtos.CandidateListItem, 0, len(rows))
	for _, row := range rows {
		if row.Skills == nil {
			row.Skills = []string{}
		}
		if skill != "" && !hasSkill(row.Skills, skill) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func hasSkill(skills []string, want string) bool {
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return true
		}
	}
	return false
}

// GetByID returns a candidate with their full application history.
func (s *CandidateService) GetByID(ctx context.Context, id string) (*dtos.CandidateDetail, error) {
	var candidate models.Candidate
	err := s.DB.WithContext(ctx).First(&candidate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Candidate not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	history := []dtos.CandidateApplication{}
	err = s.DB.WithContext(ctx).
		Table("applications").
		Select("applications.id, applications.status, applications.notes, applications.created_at, applications.updated_at, jobs.id AS job_id, jobs.title AS job_title, jobs.department AS job_department").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("applications.candidate_id = ?", id).
		Order("applications.created_at DESC").
		Scan(&history).Error
	if err != nil {
		return nil, fmt.Errorf("candidate history: %w", err)
	}

	return &dtos.CandidateDetail{Candidate: candidate, Applications: history}, nil
}

func (s *CandidateService) Create(ctx context.Context, req *dtos.CandidateCreationRequest) (*models.Candidate, error) {
	if req.Experience < 0 {
		return nil, apperrors.Validation("Experience must be non-negative", map[string]any{"experience": req.Experience})
	}
	name, email := req.Name, req.Email
	if err := trimRequired(map[string]*string{"name": &name, "email": &email}); err != nil {
		return nil, err
	}

	skills := make([]string, 0, len(req.Skills))
	for _, skill := range req.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}

	candidate := &models.Candidate{
		Name:       name,
		Email:      email,
		Phone:      req.Phone,
		Skills:     skills,
		Experience: req.Experience,
		Notes:      req.Notes,
	}
	err := s.DB.WithContext(ctx).Create(candidate).Error
	if database.IsUniqueViolation(err) {
		return nil, apperrors.Conflict("A candidate with this email already exists", err)
	}
	if err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}

	s.Log.Info("Candidate created", zap.String("candidate_id", candidate.ID))
	return candidate, nil
}
