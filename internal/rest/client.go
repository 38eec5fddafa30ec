// Package rest consumes the marketplace HTTP API: the bearer-token gated
// endpoints the dashboards read snapshots from and write mutations through.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"karyab/client/internal/models"
)

// API is the REST surface the dashboard controller depends on.
type API interface {
	Me(ctx context.Context) (*models.Profile, error)
	MyJobs(ctx context.Context) ([]models.Job, error)
	AvailableJobs(ctx context.Context) ([]models.Job, error)
	MyApplications(ctx context.Context) ([]models.Job, error)
	CreateJob(ctx context.Context, form models.JobForm) (*models.Job, error)
	Apply(ctx context.Context, jobID, notes string) error
	Accept(ctx context.Context, jobID, specialistID string) error
}

// Client talks to the REST API. No client-side timeout is configured here;
// callers rely on the transport default, and in-flight requests are never
// cancelled on unmount.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL, token string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
		log:     logger.With().Str("component", "rest").Logger(),
	}
}

// envelope is the `{"data": ..., "message": ...}` wrapper every endpoint
// responds with.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.token == "" {
		return models.ErrNoToken
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &models.NetworkError{Message: err.Error()}
	}
	defer resp.Body.Close()

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil && resp.StatusCode < 400 {
		return &models.NetworkError{Status: resp.StatusCode, Message: "malformed response"}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		msg := env.Message
		if msg == "" {
			msg = "not authorized"
		}
		return &models.AuthError{Message: msg}
	}
	if resp.StatusCode >= 400 {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return &models.NetworkError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &models.NetworkError{Status: resp.StatusCode, Message: "malformed response"}
		}
	}
	return nil
}

// Me fetches the authenticated user. Some API versions nest the profile
// under data.user, others return it as data directly.
func (c *Client) Me(ctx context.Context) (*models.Profile, error) {
	var payload struct {
		models.Profile
		User *models.Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &payload); err != nil {
		return nil, err
	}
	if payload.User != nil {
		return payload.User, nil
	}
	p := payload.Profile
	return &p, nil
}

// MyJobs lists the employer's own postings, applicant sub-lists included.
func (c *Client) MyJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.do(ctx, http.MethodGet, "/employers/my-jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// AvailableJobs lists open postings a specialist can apply to.
func (c *Client) AvailableJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/available", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// MyApplications lists the jobs the specialist has applied to.
func (c *Client) MyApplications(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.do(ctx, http.MethodGet, "/specialists/my-applications", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CreateJob posts a new job and returns the created record.
func (c *Client) CreateJob(ctx context.Context, form models.JobForm) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodPost, "/jobs", form, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Apply files a job application with an optional note.
func (c *Client) Apply(ctx context.Context, jobID, notes string) error {
	body := map[string]string{"notes": notes}
	return c.do(ctx, http.MethodPost, "/jobs/"+jobID+"/apply", body, nil)
}

// Accept assigns the applicant to the job.
func (c *Client) Accept(ctx context.Context, jobID, specialistID string) error {
	return c.do(ctx, http.MethodPut, "/jobs/"+jobID+"/accept/"+specialistID, struct{}{}, nil)
}
