package dtos

import (
	"time"

	"github.com/justsurfingit/talentra/internal/models"
)

type CandidateCreationRequest struct {
	Name       string   `json:"name" binding:"required,min=1"`
	Email      string   `json:"email" binding:"required,email"`
	Phone      *string  `json:"phone"`
	Skills     []string `json:"skills" binding:"omitempty,dive,required"`
	Experience int      `json:"experience" binding:"min=0"`
	Notes      *string  `json:"notes"`
}

// CandidateFilter carries the optional query parameters of candidates.list.
type CandidateFilter struct {
	Search string `form:"search"`
	Skill  string `form:"skill"`
	MinExp *int   `form:"minExp" binding:"omitempty,min=0"`
}

type CandidateListItem struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	Skills           []string  `gorm:"serializer:json" json:"skills"`
	Experience       int       `json:"experience"`
	Notes            *string   `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	ApplicationCount int64     `json:"application_count"`
}

// CandidateApplication is one entry of a candidate's application history.
type CandidateApplication struct {
	ID            string                   `json:"id"`
	Status        models.ApplicationStatus `json:"status"`
	Notes         *string                  `json:"notes"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	JobID         string                   `json:"job_id"`
	JobTitle      string                   `json:"job_title"`
	JobDepartment string                   `json:"job_department"`
}

type CandidateDetail struct {
	models.Candidate
	Applications []CandidateApplication `json:"applications"`
}
