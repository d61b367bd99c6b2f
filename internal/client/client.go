// Package client is a typed HTTP client for the /api/v1 procedures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/justsurfingit/talentra/internal/apperrors"
	"github.com/justsurfingit/talentra/internal/config"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       apperrors.Code
	Message    string
	Details    map[string]any
	RequestID  string
}

// Error returns the server's message so it can be shown to users as is.
func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

func New(cfg config.ClientConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/api/v1",
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope apperrors.HTTPErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
		apiErr.RequestID = envelope.Error.RequestID
		return apiErr
	}

	apiErr.Code = apperrors.CodeInternal
	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*dtos.HealthResponse, error) {
	var out dtos.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]dtos.JobListItem, error) {
	var out []dtos.JobListItem
	if err := c.do(ctx, http.MethodGet, "/jobs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var out models.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateJob(ctx context.Context, req dtos.JobCreationRequest) (*models.Job, error) {
	var out models.Job
	if err := c.do(ctx, http.MethodPost, "/jobs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateJob(ctx context.Context, id string, req dtos.JobUpdateRequest) (*models.Job, error) {
	var out models.Job
	if err := c.do(ctx, http.MethodPut, "/jobs/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	var out models.Job
	if err := c.do(ctx, http.MethodPatch, "/jobs/"+url.PathEscape(id)+"/status", dtos.JobStatusRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteJob(ctx context.Context, id string) (*models.Job, error) {
	var out models.Job
	if err := c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PipelineSummary(ctx context.Context) ([]dtos.PipelineSummaryRow, error) {
	var out []dtos.PipelineSummaryRow
	if err := c.do(ctx, http.MethodGet, "/jobs/pipeline-summary", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListJobApplications(ctx context.Context, jobID string) ([]dtos.ApplicationCard, error) {
	var out []dtos.ApplicationCard
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID)+"/applications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCandidates(ctx context.Context, filter dtos.CandidateFilter) ([]dtos.CandidateListItem, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Skill != "" {
		q.Set("skill", filter.Skill)
	}
	if filter.MinExp != nil {
		q.Set("minExp", strconv.Itoa(*filter.MinExp))
	}
	path := "/candidates"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []dtos.CandidateListItem
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCandidate(ctx context.Context, id string) (*dtos.CandidateDetail, error) {
	var out dtos.CandidateDetail
	if err := c.do(ctx, http.MethodGet, "/candidates/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCandidate(ctx context.Context, req dtos.CandidateCreationRequest) (*models.Candidate, error) {
	var out models.Candidate
	if err := c.do(ctx, http.MethodPost, "/candidates", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateApplication(ctx context.Context, req dtos.ApplicationCreationRequest) (*models.Application, error) {
	var out models.Application
	if err := c.do(ctx, http.MethodPost, "/applications", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetApplicationStatus calls PATCH /applications/:id/status and returns the
// stored row.
func (c *Client) SetApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	var out models.Application
	if err := c.do(ctx, http.MethodPatch, "/applications/"+url.PathEscape(id)+"/status", dtos.ApplicationStatusRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateApplicationStatus lets the client drive a pipeline.Controller.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	_, err := c.SetApplicationStatus(ctx, id, status)
	if err != nil {
		c.log.Debug("Status update rejected", zap.String("application_id", id), zap.Error(err))
	}
	return err
}

func (c *Client) Stats(ctx context.Context) (*dtos.Stats, error) {
	var out dtos.Stats
	if err := c.do(ctx, http.MethodGet, "/applications/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Trend(ctx context.Context) ([]dtos.TrendPoint, error) {
	var out []dtos.TrendPoint
	if err := c.do(ctx, http.MethodGet, "/applications/trend", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Stale(ctx context.Context) ([]dtos.ApplicationActivity, error) {
	var out []dtos.ApplicationActivity
	if err := c.do(ctx, http.MethodGet, "/applications/stale", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Recent(ctx context.Context) ([]dtos.ApplicationActivity, error) {
	var out []dtos.ApplicationActivity
	if err := c.do(ctx, http.MethodGet, "/applications/recent", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
