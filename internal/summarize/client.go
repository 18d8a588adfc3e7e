// Package summarize wraps the external text-generation service that
// drafts shipment summaries. Only the contract matters here: request
// shape in, a single summary string out, and a non-fatal error on any
// provider failure.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harborline/harborline/internal/platform/httpx"
)

// Request describes the shipment the summary is written about.
type Request struct {
	CustomerName string `json:"customer_name" validate:"required"`
	POL          string `json:"pol" validate:"required"`
	POD          string `json:"pod" validate:"required"`
	Equipment    string `json:"equipment" validate:"required"`
	Volume       string `json:"volume"`
	Type         string `json:"type" validate:"required"`
}

type response struct {
	Summary string `json:"summary"`
}

// Client calls the summary provider over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ping checks if the remote service is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("summary service returned status %d", resp.StatusCode)
	}
	return nil
}

// Summarize asks the provider for a short professional summary. Any
// failure, including an empty result, wraps httpx.ErrExternal so callers
// surface it as a dismissible notice and leave the notes field alone.
func (c *Client) Summarize(ctx context.Context, sr Request) (string, error) {
	body, err := json.Marshal(sr)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/summaries", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request: %w: %v", httpx.ErrExternal, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("summary request returned status %d: %w", resp.StatusCode, httpx.ErrExternal)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("summary response decode: %w: %v", httpx.ErrExternal, err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return "", fmt.Errorf("summary service returned empty output: %w", httpx.ErrExternal)
	}
	return out.Summary, nil
}
