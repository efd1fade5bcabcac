// Package syncclient pushes workspace snapshots to the snftrack server
// and pulls the facility list. Sync is explicit and one-directional per
// call; nothing here reconciles state automatically.
package syncclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/workspace"
)

// Client is an authenticated HTTP client for the snftrack API. The
// session cookie set by Login is carried on subsequent calls.
type Client struct {
	http *resty.Client
}

// New creates a Client for the API at baseURL.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	c := resty.New().
		SetBaseURL(baseURL).
		SetCookieJar(jar).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// Login authenticates and stores the session cookie on the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		Post("/api/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status())
	}
	return nil
}

// Facilities fetches the full facility list (the initial pull).
func (c *Client) Facilities(ctx context.Context) ([]model.Facility, error) {
	var out []model.Facility
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/facilities")
	if err != nil {
		return nil, fmt.Errorf("facilities request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("facilities fetch failed: %s", resp.Status())
	}
	return out, nil
}

// SaveProgress pushes the workspace progress flags for one facility.
func (c *Client) SaveProgress(ctx context.Context, facilityID string, p workspace.Progress) (model.FacilityProgress, error) {
	body := map[string]any{
		"facility_id":         facilityID,
		"profile_complete":    p.ProfileComplete,
		"assessment_complete": p.AssessmentComplete,
		"compliance_complete": p.ComplianceComplete,
		"financial_complete":  p.FinancialComplete,
		"deployment_complete": p.DeploymentComplete,
		"last_updated":        time.Now().UTC().Format(time.RFC3339),
	}
	var out model.FacilityProgress
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/api/facility-progress")
	if err != nil {
		return model.FacilityProgress{}, fmt.Errorf("progress request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return model.FacilityProgress{}, fmt.Errorf("progress save failed: %s", resp.Status())
	}
	return out, nil
}

// PushFacility uploads one facility record via the admin endpoint.
func (c *Client) PushFacility(ctx context.Context, f model.Facility) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(f).
		Post("/api/admin/facilities")
	if err != nil {
		return fmt.Errorf("facility request: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("facility push failed: %s", resp.Status())
	}
	return nil
}
