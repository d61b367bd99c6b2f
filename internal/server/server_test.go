package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/apperrors"
	"github.com/justsurfingit/talentra/internal/config"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
	"github.com/justsurfingit/talentra/internal/testutil"
)

const testToken = "tok-test"

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: 0, Mode: gin.TestMode, CORSOrigins: []string{"*"}},
		Database:  config.DatabaseConfig{Driver: "sqlite"},
		Auth:      config.AuthConfig{Tokens: []string{testToken + ":recruiter-1"}},
		RateLimit: config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 3},
		Logging:   config.LoggingConfig{Level: "info", Format: "json"},
	}
}

type harness struct {
	t  *testing.T
	db *gorm.DB
	h  http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, testConfig())
}

func newHarnessWith(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	srv, err := New(cfg, db, zap.NewNop())
	require.NoError(t, err)
	return &harness{t: t, db: db, h: srv.Handler()}
}

func (h *harness) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.doWithHeaders(method, path, body, authed, nil)
}

func (h *harness) doWithHeaders(method, path string, body any, authed bool, headers map[string]string) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/api/v1/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestWritesRequireSession(t *testing.T) {
	h := newHarness(t)

	writes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/jobs"},
		{http.MethodPut, "/api/v1/jobs/x"},
		{http.MethodPatch, "/api/v1/jobs/x/status"},
		{http.MethodDelete, "/api/v1/jobs/x"},
		{http.MethodPost, "/api/v1/applications"},
		{http.MethodPatch, "/api/v1/applications/x/status"},
	}
	for _, w := range writes {
		t.Run(w.method+" "+w.path, func(t *testing.T) {
			rec := h.do(w.method, w.path, map[string]any{"status": "OPEN"}, false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decode[apperrors.HTTPErrorResponse](t, rec)
			assert.Equal(t, apperrors.CodeUnauthorized, body.Error.Code)
		})
	}
}

func TestJobLifecycle(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/jobs", dtos.JobCreationRequest{Title: "Backend Engineer", Department: "Engineering"}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	job := decode[models.Job](t, rec)
	assert.Equal(t, models.JobStatusDraft, job.Status)

	rec = h.do(http.MethodPatch, "/api/v1/jobs/"+job.ID+"/status", dtos.JobStatusRequest{Status: models.JobStatusOpen}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.JobStatusOpen, decode[models.Job](t, rec).Status)

	rec = h.do(http.MethodGet, "/api/v1/jobs/pipeline-summary", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[[]dtos.PipelineSummaryRow](t, rec)
	require.Len(t, summary, 1)
	assert.Equal(t, job.ID, summary[0].ID)

	rec = h.do(http.MethodDelete, "/api/v1/jobs/"+job.ID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/jobs/"+job.ID, nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/jobs", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]dtos.JobListItem](t, rec))
}

func TestValidationDetails(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/jobs", map[string]any{"department": "Eng", "status": "ARCHIVED"}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[apperrors.HTTPErrorResponse](t, rec)
	assert.Equal(t, apperrors.CodeValidation, body.Error.Code)
	assert.Contains(t, body.Error.Details, "title")
	assert.Contains(t, body.Error.Details, "status")

	rec = h.do(http.MethodGet, "/api/v1/candidates?minExp=-1", nil, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[apperrors.HTTPErrorResponse](t, rec).Error.Details, "minExp")

	rec = h.do(http.MethodPost, "/api/v1/candidates", map[string]any{"name": "   ", "email": "blank@example.com"}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = decode[apperrors.HTTPErrorResponse](t, rec)
	assert.Equal(t, apperrors.CodeValidation, body.Error.Code)
	assert.Contains(t, body.Error.Details, "name")
}

func TestApplicationFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/jobs", dtos.JobCreationRequest{Title: "Designer", Department: "Design", Status: models.JobStatusOpen}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	job := decode[models.Job](t, rec)

	rec = h.do(http.MethodPost, "/api/v1/candidates", dtos.CandidateCreationRequest{Name: "Carol", Email: "carol@example.com", Skills: []string{"Figma"}}, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	candidate := decode[models.Candidate](t, rec)

	rec = h.do(http.MethodPost, "/api/v1/candidates", dtos.CandidateCreationRequest{Name: "Carol 2", Email: "carol@example.com"}, false)
	assert.Equal(t, http.StatusConflict, rec.Code)

	create := dtos.ApplicationCreationRequest{JobID: job.ID, CandidateID: candidate.ID}
	rec = h.do(http.MethodPost, "/api/v1/applications", create, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	app := decode[models.Application](t, rec)

	rec = h.do(http.MethodPost, "/api/v1/applications", create, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPatch, "/api/v1/applications/"+app.ID+"/status", dtos.ApplicationStatusRequest{Status: models.StatusInterview}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusInterview, decode[models.Application](t, rec).Status)

	rec = h.do(http.MethodPatch, "/api/v1/applications/nope/status", dtos.ApplicationStatusRequest{Status: models.StatusHired}, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Application not found", decode[apperrors.HTTPErrorResponse](t, rec).Error.Message)

	rec = h.do(http.MethodPatch, "/api/v1/applications/"+app.ID+"/status", map[string]string{"status": "WITHDRAWN"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/jobs/"+job.ID+"/applications", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	cards := decode[[]dtos.ApplicationCard](t, rec)
	require.Len(t, cards, 1)
	assert.Equal(t, "Carol", cards[0].CandidateName)

	rec = h.do(http.MethodGet, "/api/v1/applications/stats", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[dtos.Stats](t, rec)
	assert.Equal(t, int64(1), stats.InInterview)

	rec = h.do(http.MethodGet, "/api/v1/candidates/"+candidate.ID, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[dtos.CandidateDetail](t, rec)
	require.Len(t, detail.Applications, 1)
	assert.Equal(t, "Designer", detail.Applications[0].JobTitle)

	for _, path := range []string{"/api/v1/applications/trend", "/api/v1/applications/stale", "/api/v1/applications/recent"} {
		rec = h.do(http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestCandidateCreateIsRateLimited(t *testing.T) {
	h := newHarness(t)

	var last int
	for i := 0; i < 4; i++ {
		rec := h.do(http.MethodPost, "/api/v1/candidates", map[string]any{"name": "x"}, false)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func createWithForwardedFor(h *harness, n int) []int {
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		rec := h.doWithHeaders(http.MethodPost, "/api/v1/candidates", map[string]any{"name": "x"}, false,
			map[string]string{"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i+1)})
		codes = append(codes, rec.Code)
	}
	return codes
}

func TestCandidateCreateRateLimitIgnoresForwardedFor(t *testing.T) {
	h := newHarness(t)

	codes := createWithForwardedFor(h, 6)
	assert.Contains(t, codes, http.StatusTooManyRequests)
	assert.Equal(t, http.StatusTooManyRequests, codes[len(codes)-1])
}

func TestCandidateCreateRateLimitTrustsConfiguredProxy(t *testing.T) {
	cfg := testConfig()
	// httptest requests come from 192.0.2.1.
	cfg.Server.TrustedProxies = []string{"192.0.2.0/24"}
	h := newHarnessWith(t, cfg)

	codes := createWithForwardedFor(h, 6)
	assert.NotContains(t, codes, http.StatusTooManyRequests)
}

func TestNew_RejectsBadTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Server.TrustedProxies = []string{"not-an-ip"}
	_, err := New(cfg, testutil.NewDB(t), zap.NewNop())
	assert.Error(t, err)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testConfig()
	cfg.Server.ShutdownTimeout = time.Second
	srv, err := New(cfg, db, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
