// Package seed loads the demo dataset.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/models"
)

//go:embed seed.yaml
var defaultData []byte

type Dataset struct {
	Jobs         []JobFixture         `yaml:"jobs"`
	Candidates   []CandidateFixture   `yaml:"candidates"`
	Applications []ApplicationFixture `yaml:"applications"`
}

type JobFixture struct {
	Key         string           `yaml:"key"`
	Title       string           `yaml:"title"`
	Department  string           `yaml:"department"`
	Description string           `yaml:"description"`
	Location    string           `yaml:"location"`
	Status      models.JobStatus `yaml:"status"`
}

type CandidateFixture struct {
	Key        string   `yaml:"key"`
	Name       string   `yaml:"name"`
	Email      string   `yaml:"email"`
	Phone      string   `yaml:"phone"`
	Skills     []string `yaml:"skills"`
	Experience int      `yaml:"experience"`
	Notes      string   `yaml:"notes"`
}

type ApplicationFixture struct {
	Job       string                   `yaml:"job"`
	Candidate string                   `yaml:"candidate"`
	Status    models.ApplicationStatus `yaml:"status"`
	DaysAgo   int                      `yaml:"days_ago"`
}

// Result counts the rows written.
type Result struct {
	Jobs         int
	Candidates   int
	Applications int
}

// Default returns the embedded demo dataset.
func Default() (*Dataset, error) {
	return Parse(defaultData)
}

// Parse decodes and checks a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	jobs := make(map[string]bool, len(ds.Jobs))
	for _, j := range ds.Jobs {
		if j.Key == "" || jobs[j.Key] {
			return fmt.Errorf("seed job %q: missing or duplicate key", j.Title)
		}
		if !j.Status.Valid() {
			return fmt.Errorf("seed job %q: invalid status %q", j.Key, j.Status)
		}
		jobs[j.Key] = true
	}

	candidates := make(map[string]bool, len(ds.Candidates))
	for _, c := range ds.Candidates {
		if c.Key == "" || candidates[c.Key] {
			return fmt.Errorf("seed candidate %q: missing or duplicate key", c.Email)
		}
		if c.Experience < 0 {
			return fmt.Errorf("seed candidate %q: negative experience", c.Key)
		}
		candidates[c.Key] = true
	}

	pairs := make(map[[2]string]bool, len(ds.Applications))
	for _, a := range ds.Applications {
		if !jobs[a.Job] || !candidates[a.Candidate] {
			return fmt.Errorf("seed application %s/%s: unknown job or candidate", a.Job, a.Candidate)
		}
		if !a.Status.Valid() {
			return fmt.Errorf("seed application %s/%s: invalid status %q", a.Job, a.Candidate, a.Status)
		}
		pair := [2]string{a.Job, a.Candidate}
		if pairs[pair] {
			return fmt.Errorf("seed application %s/%s: duplicate", a.Job, a.Candidate)
		}
		pairs[pair] = true
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Apply replaces all jobs, candidates and applications with ds in one
// transaction. now anchors the days_ago offsets.
func Apply(ctx context.Context, db *gorm.DB, ds *Dataset, now time.Time, log *zap.Logger) (Result, error) {
	var res Result
	now = now.UTC()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Clear existing ATS data, children first.
		for _, model := range []any{&models.Application{}, &models.Candidate{}, &models.Job{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		jobIDs := make(map[string]string, len(ds.Jobs))
		for i, entry := range ds.Jobs {
			// Later entries are newer so list order matches the file.
			created := now.Add(-time.Duration(len(ds.Jobs)-i) * time.Minute)
			job := &models.Job{
				Title:       entry.Title,
				Department:  entry.Department,
				Description: optional(entry.Description),
				Location:    optional(entry.Location),
				Status:      entry.Status,
				CreatedAt:   created,
				UpdatedAt:   created,
			}
			if err := tx.Create(job).Error; err != nil {
				return fmt.Errorf("create job %q: %w", entry.Key, err)
			}
			jobIDs[entry.Key] = job.ID
		}

		candidateIDs := make(map[string]string, len(ds.Candidates))
		for i, entry := range ds.Candidates {
			skills := entry.Skills
			if skills == nil {
				skills = []string{}
			}
			c := &models.Candidate{
				Name:       entry.Name,
				Email:      entry.Email,
				Phone:      optional(entry.Phone),
				Skills:     skills,
				Experience: entry.Experience,
				Notes:      optional(entry.Notes),
				CreatedAt:  now.Add(-time.Duration(len(ds.Candidates)-i) * time.Minute),
			}
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("create candidate %q: %w", entry.Key, err)
			}
			candidateIDs[entry.Key] = c.ID
		}

		for _, entry := range ds.Applications {
			at := now.AddDate(0, 0, -entry.DaysAgo)
			app := &models.Application{
				JobID:       jobIDs[entry.Job],
				CandidateID: candidateIDs[entry.Candidate],
				Status:      entry.Status,
				CreatedAt:   at,
				UpdatedAt:   at,
			}
			if err := tx.Create(app).Error; err != nil {
				return fmt.Errorf("create application %s/%s: %w", entry.Job, entry.Candidate, err)
			}
		}

		res = Result{Jobs: len(ds.Jobs), Candidates: len(ds.Candidates), Applications: len(ds.Applications)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info("Seed complete",
		zap.Int("jobs", res.Jobs),
		zap.Int("candidates", res.Candidates),
		zap.Int("applications", res.Applications))
	return res, nil
}
