// Package client is the HTTP implementation of the profile service used
// by the form controller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"financial-advisor/api/models"
)

// ProfileClient talks to the profile endpoints with a bearer token.
type ProfileClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewProfileClient(baseURL, token string) *ProfileClient {
	return &ProfileClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type dataEnvelope struct {
	Data *models.Profile `json:"data"`
}

type errorEnvelope struct {
	Error  string              `json:"error"`
	Errors []models.FieldError `json:"errors"`
}

// GetLatest fetches the caller's profile. A 404 means "no profile yet"
// and is returned as (nil, nil).
func (c *ProfileClient) GetLatest(ctx context.Context) (*models.Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/profile/me", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var envelope dataEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return envelope.Data, nil
}

// Upsert saves the whole profile payload. A 409 from a concurrent
// first-creation race is retried once; by then the document exists and
// the same call succeeds as an update.
func (c *ProfileClient) Upsert(ctx context.Context, in models.ProfileInput) (*models.Profile, error) {
	profile, retryable, err := c.upsertOnce(ctx, in)
	if retryable {
		profile, _, err = c.upsertOnce(ctx, in)
	}
	return profile, err
}

func (c *ProfileClient) upsertOnce(ctx context.Context, in models.ProfileInput) (*models.Profile, bool, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal profile payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, "/api/profile", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var envelope dataEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, false, fmt.Errorf("failed to decode profile response: %w", err)
		}
		return envelope.Data, false, nil
	case http.StatusConflict:
		return nil, true, models.ErrDuplicateProfile
	case http.StatusBadRequest:
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && len(envelope.Errors) > 0 {
			return nil, false, &models.ValidationError{Fields: envelope.Errors}
		}
		return nil, false, fmt.Errorf("profile rejected: %s", envelope.Error)
	default:
		return nil, false, apiError(resp)
	}
}

// Delete removes the caller's profile. A 404 surfaces as
// models.ErrProfileNotFound.
func (c *ProfileClient) Delete(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/profile", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return models.ErrProfileNotFound
	default:
		return apiError(resp)
	}
}

func (c *ProfileClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		return fmt.Errorf("profile API error (%d): %s", resp.StatusCode, envelope.Error)
	}
	return fmt.Errorf("profile API error: unexpected status %d", resp.StatusCode)
}
