package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/models"
	"github.com/justsurfingit/talentra/internal/testutil"
)

var baseTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// fixedClock returns a clock that reports *now and can be advanced by tests.
func fixedClock(now *time.Time) Clock {
	return func() time.Time { return *now }
}

type fixture struct {
	db  *gorm.DB
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{db: testutil.NewDB(t), ctx: context.Background()}
}

func (f *fixture) job(t *testing.T, title string, status models.JobStatus, createdAt time.Time) *models.Job {
	t.Helper()
	job := &models.Job{Title: title, Department: "Engineering", Status: status, CreatedAt: createdAt, UpdatedAt: createdAt}
	require.NoError(t, f.db.Create(job).Error)
	return job
}

func (f *fixture) candidate(t *testing.T, name, email string, createdAt time.Time) *models.Candidate {
	t.Helper()
	c := &models.Candidate{Name: name, Email: email, CreatedAt: createdAt}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) application(t *testing.T, job *models.Job, c *models.Candidate, status models.ApplicationStatus, at time.Time) *models.Application {
	t.Helper()
	app := &models.Application{JobID: job.ID, CandidateID: c.ID, Status: status, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, f.db.Create(app).Error)
	return app
}

func nopLogger() *zap.Logger { return zap.NewNop() }
