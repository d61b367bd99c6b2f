package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/talentra/internal/apperrors"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
)

func TestApplicationService_Create(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := NewApplicationService(f.db, nopLogger())
	svc.Now = fixedClock(&now)

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	alice := f.candidate(t, "Alice", "alice@example.com", baseTime)

	app, err := svc.Create(f.ctx, &dtos.ApplicationCreationRequest{JobID: job.ID, CandidateID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.True(t, app.CreatedAt.Equal(baseTime))
	assert.True(t, app.UpdatedAt.Equal(baseTime))
}

func TestApplicationService_CreateDuplicatePairConflicts(t *testing.T) {
	f := newFixture(t)
	svc := NewApplicationService(f.db, nopLogger())

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	alice := f.candidate(t, "Alice", "alice@example.com", baseTime)
	req := &dtos.ApplicationCreationRequest{JobID: job.ID, CandidateID: alice.ID}

	_, err := svc.Create(f.ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(f.ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestApplicationService_CreateUnknownParents(t *testing.T) {
	f := newFixture(t)
	svc := NewApplicationService(f.db, nopLogger())
	jobs := NewJobService(f.db, nopLogger())

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	alice := f.candidate(t, "Alice", "alice@example.com", baseTime)

	_, err := svc.Create(f.ctx, &dtos.ApplicationCreationRequest{JobID: "missing", CandidateID: alice.ID})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Create(f.ctx, &dtos.ApplicationCreationRequest{JobID: job.ID, CandidateID: "missing"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = jobs.Delete(f.ctx, job.ID)
	require.NoError(t, err)
	_, err = svc.Create(f.ctx, &dtos.ApplicationCreationRequest{JobID: job.ID, CandidateID: alice.ID})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := NewApplicationService(f.db, nopLogger())
	svc.Now = fixedClock(&now)

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	alice := f.candidate(t, "Alice", "alice@example.com", baseTime)
	app := f.application(t, job, alice, models.StatusScreening, baseTime.Add(-time.Hour))

	tests := []struct {
		name   string
		status models.ApplicationStatus
	}{
		{"forward", models.StatusOffer},
		{"backward", models.StatusApplied},
		{"same stage", models.StatusApplied},
		{"skip ahead", models.StatusHired},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = baseTime.Add(time.Duration(i+1) * time.Minute)
			got, err := svc.UpdateStatus(f.ctx, app.ID, tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			assert.True(t, got.UpdatedAt.Equal(now))
		})
	}
}

func TestApplicationService_UpdateStatusUnknownID(t *testing.T) {
	f := newFixture(t)
	svc := NewApplicationService(f.db, nopLogger())

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	alice := f.candidate(t, "Alice", "alice@example.com", baseTime)
	app := f.application(t, job, alice, models.StatusApplied, baseTime)

	_, err := svc.UpdateStatus(f.ctx, "does-not-exist", models.StatusHired)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Application not found", err.(*apperrors.Error).Message)

	var stored models.Application
	require.NoError(t, f.db.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, models.StatusApplied, stored.Status)
	assert.True(t, stored.UpdatedAt.Equal(baseTime))
}

func TestApplicationService_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	svc := NewApplicationService(f.db, nopLogger())

	_, err := svc.UpdateStatus(f.ctx, "any", models.ApplicationStatus("WITHDRAWN"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestApplicationService_LastWriteWins(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := NewApplicationService(f.db, nopLogger())
	svc.Now = fixedClock(&now)

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	alice := f.candidate(t, "Alice", "alice@example.com", baseTime)
	app := f.application(t, job, alice, models.StatusApplied, baseTime.Add(-time.Hour))

	now = baseTime.Add(time.Second)
	_, err := svc.UpdateStatus(f.ctx, app.ID, models.StatusOffer)
	require.NoError(t, err)

	now = baseTime.Add(2 * time.Second)
	_, err = svc.UpdateStatus(f.ctx, app.ID, models.StatusRejected)
	require.NoError(t, err)

	var stored models.Application
	require.NoError(t, f.db.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, models.StatusRejected, stored.Status)
	assert.True(t, stored.UpdatedAt.Equal(now))
}

func TestApplicationService_ListByJob(t *testing.T) {
	f := newFixture(t)
	svc := NewApplicationService(f.db, nopLogger())

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	other := f.job(t, "Backend", models.JobStatusOpen, baseTime)
	alice := f.candidate(t, "Alice", "alice@example.com", baseTime)
	bob := &models.Candidate{Name: "Bob", Email: "bob@example.com", Skills: []string{"Go"}, Experience: 8}
	require.NoError(t, f.db.Create(bob).Error)

	f.application(t, job, alice, models.StatusApplied, baseTime.Add(-time.Hour))
	newest := f.application(t, job, bob, models.StatusInterview, baseTime)
	f.application(t, other, alice, models.StatusApplied, baseTime)

	cards, err := svc.ListByJob(f.ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, newest.ID, cards[0].ID)
	assert.Equal(t, "Bob", cards[0].CandidateName)
	assert.Equal(t, "bob@example.com", cards[0].CandidateEmail)
	assert.Equal(t, []string{"Go"}, cards[0].CandidateSkills)
	assert.Equal(t, 8, cards[0].CandidateExperience)

	empty, err := svc.ListByJob(f.ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
