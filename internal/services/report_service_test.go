package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
)

func newReportService(f *fixture, now *time.Time) *ReportService {
	svc := NewReportService(f.db, nopLogger())
	svc.Now = fixedClock(now)
	return svc
}

func TestReportService_PipelineSummaryCounts(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := newReportService(f, &now)

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	statuses := []models.ApplicationStatus{
		models.StatusApplied, models.StatusApplied, models.StatusScreening, models.StatusInterview,
	}
	for i, st := range statuses {
		c := f.candidate(t, fmt.Sprintf("C%d", i), fmt.Sprintf("c%d@example.com", i), baseTime)
		f.application(t, job, c, st, baseTime)
	}

	rows, err := svc.PipelineSummary(f.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, dtos.PipelineSummaryRow{
		ID:             job.ID,
		Title:          "Frontend",
		Department:     "Engineering",
		AppliedCount:   2,
		ScreeningCount: 1,
		InterviewCount: 1,
		OfferCount:     0,
	}, rows[0])
}

func TestReportService_PipelineSummaryExcludesClosedDeletedAndTerminal(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := newReportService(f, &now)
	jobs := NewJobService(f.db, nopLogger())

	older := f.job(t, "Older", models.JobStatusOpen, baseTime.Add(-2*time.Hour))
	newer := f.job(t, "Newer", models.JobStatusOpen, baseTime.Add(-time.Hour))
	f.job(t, "Draft", models.JobStatusDraft, baseTime)
	f.job(t, "Closed", models.JobStatusClosed, baseTime)
	gone := f.job(t, "Gone", models.JobStatusOpen, baseTime)
	_, err := jobs.Delete(f.ctx, gone.ID)
	require.NoError(t, err)

	alice := f.candidate(t, "Alice", "alice@example.com", baseTime)
	bob := f.candidate(t, "Bob", "bob@example.com", baseTime)
	f.application(t, older, alice, models.StatusHired, baseTime)
	f.application(t, older, bob, models.StatusRejected, baseTime)

	rows, err := svc.PipelineSummary(f.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
	for _, row := range rows {
		assert.Zero(t, row.AppliedCount+row.ScreeningCount+row.InterviewCount+row.OfferCount)
	}
}

func TestReportService_Stale(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := newReportService(f, &now)

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	staleable := []models.ApplicationStatus{models.StatusApplied, models.StatusScreening, models.StatusOffer}
	excluded := []models.ApplicationStatus{models.StatusInterview, models.StatusHired, models.StatusRejected}

	// Twelve eligible rows, oldest first by index, plus the excluded stages at the oldest times.
	for i := 0; i < 12; i++ {
		c := f.candidate(t, fmt.Sprintf("C%02d", i), fmt.Sprintf("c%02d@example.com", i), baseTime)
		f.application(t, job, c, staleable[i%3], baseTime.Add(time.Duration(i)*time.Hour))
	}
	for i, st := range excluded {
		c := f.candidate(t, fmt.Sprintf("X%d", i), fmt.Sprintf("x%d@example.com", i), baseTime)
		f.application(t, job, c, st, baseTime.Add(-time.Duration(i+1)*24*time.Hour))
	}

	rows, err := svc.Stale(f.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 10)

	for i, row := range rows {
		assert.Equal(t, fmt.Sprintf("C%02d", i), row.CandidateName)
		assert.Equal(t, "Frontend", row.JobTitle)
		assert.NotContains(t, excluded, row.Status)
		if i > 0 {
			assert.False(t, row.UpdatedAt.Before(rows[i-1].UpdatedAt))
		}
	}
}

func TestReportService_Recent(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := newReportService(f, &now)

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	for i := 0; i < 12; i++ {
		c := f.candidate(t, fmt.Sprintf("C%02d", i), fmt.Sprintf("c%02d@example.com", i), baseTime)
		f.application(t, job, c, models.StatusHired, baseTime.Add(time.Duration(i)*time.Minute))
	}

	rows, err := svc.Recent(f.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, "C11", rows[0].CandidateName)
	assert.Equal(t, "C02", rows[9].CandidateName)
}

func TestReportService_Trend(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := newReportService(f, &now)

	job := f.job(t, "Frontend", models.JobStatusOpen, baseTime)
	days := []time.Time{
		baseTime.Add(-40 * 24 * time.Hour), // outside window
		baseTime.Add(-3 * 24 * time.Hour),
		baseTime.Add(-3*24*time.Hour + time.Hour),
		baseTime.Add(-time.Hour),
	}
	for i, at := range days {
		c := f.candidate(t, fmt.Sprintf("C%d", i), fmt.Sprintf("c%d@example.com", i), baseTime)
		f.application(t, job, c, models.StatusApplied, at)
	}

	points, err := svc.Trend(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []dtos.TrendPoint{
		{Day: "2025-06-12", Count: 2},
		{Day: "2025-06-15", Count: 1},
	}, points)
}

func TestReportService_Stats(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := newReportService(f, &now)
	jobs := NewJobService(f.db, nopLogger())

	weekAgo := baseTime.Add(-8 * 24 * time.Hour)
	recent := baseTime.Add(-24 * time.Hour)

	oldOpen := f.job(t, "Old open", models.JobStatusOpen, weekAgo)
	f.job(t, "New open", models.JobStatusOpen, recent)
	f.job(t, "Draft", models.JobStatusDraft, recent)
	deleted := f.job(t, "Deleted open", models.JobStatusOpen, recent)
	_, err := jobs.Delete(f.ctx, deleted.ID)
	require.NoError(t, err)

	alice := f.candidate(t, "Alice", "alice@example.com", weekAgo)
	bob := f.candidate(t, "Bob", "bob@example.com", recent)
	carol := f.candidate(t, "Carol", "carol@example.com", recent)

	f.application(t, oldOpen, alice, models.StatusInterview, weekAgo)
	f.application(t, oldOpen, bob, models.StatusInterview, recent)
	f.application(t, oldOpen, carol, models.StatusApplied, recent)

	stats, err := svc.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, dtos.Stats{
		OpenJobs:             2,
		OpenJobsThisWeek:     1,
		TotalCandidates:      3,
		CandidatesThisWeek:   2,
		TotalApplications:    3,
		ApplicationsThisWeek: 2,
		InInterview:          2,
		InInterviewThisWeek:  1,
	}, *stats)
}

func TestReportService_EmptyStore(t *testing.T) {
	f := newFixture(t)
	now := baseTime
	svc := newReportService(f, &now)

	stats, err := svc.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, dtos.Stats{}, *stats)

	points, err := svc.Trend(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, points)

	stale, err := svc.Stale(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, stale)

	summary, err := svc.PipelineSummary(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, summary)
}
