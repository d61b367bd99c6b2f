package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Job struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Title       string    `gorm:"not null" json:"title"`
	Department  string    `gorm:"not null" json:"department"`
	Description *string   `gorm:"type:text" json:"description"`
	Location    *string   `json:"location"`
	Status      JobStatus `gorm:"type:varchar(16);not null;default:'DRAFT';index" json:"status"`

	// Hard deletes cascade; soft deletes leave applications in place.
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Status == "" {
		j.Status = JobStatusDraft
	}
	return nil
}

type Candidate struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Name       string   `gorm:"not null" json:"name"`
	Email      string   `gorm:"uniqueIndex;not null" json:"email"`
	Phone      *string  `json:"phone"`
	Skills     []string `gorm:"type:text;serializer:json;not null" json:"skills"`
	Experience int      `gorm:"not null;default:0" json:"experience"`
	Notes      *string  `gorm:"type:text" json:"notes"`

	Applications []Application `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Skills == nil {
		c.Skills = []string{}
	}
	return nil
}

type Application struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`

	// A candidate may apply to a given job at most once.
	JobID       string `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_job_candidate;index" json:"job_id"`
	CandidateID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_job_candidate;index" json:"candidate_id"`

	Status ApplicationStatus `gorm:"type:varchar(16);not null;default:'APPLIED';index" json:"status"`
	Notes  *string           `gorm:"type:text" json:"notes"`

	// Associations: GORM needs Preload() to fill these
	Job       *Job       `json:"job,omitempty"`
	Candidate *Candidate `json:"candidate,omitempty"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = StatusApplied
	}
	return nil
}

// All returns every model in dependency order for AutoMigrate.
func All() []any {
	return []any{&Job{}, &Candidate{}, &Application{}}
}
