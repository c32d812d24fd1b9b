// Package summarize is the HTTP client for the summarization backend.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"aisum/pkg/models"
)

// Request paths on the backend, keyed by query mode.
const (
	videoPath = "/summarize"
	wikiPath  = "/summarize_wiki"
)

var requestTimeout = 120 * time.Second

// Client issues summarization requests against a single backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// SetHTTPClient overrides the underlying HTTP client (useful for testing).
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// Summarize sends the query to the backend and returns the summary text
// verbatim. Exactly one request is made; any transport or server failure
// is returned as an error.
func (c *Client) Summarize(ctx context.Context, q models.Query) (string, error) {
	var path string
	var payload any
	switch q.Mode {
	case models.ModeYouTube:
		path = videoPath
		payload = struct {
			VideoURL string `json:"video_url"`
		}{VideoURL: q.Text}
	case models.ModeWikipedia:
		path = wikiPath
		payload = struct {
			Question string `json:"question"`
		}{Question: q.Text}
	default:
		return "", fmt.Errorf("unknown query mode %q", q.Mode)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarize request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("summarize request returned %s: %s", resp.Status, string(snippet))
	}

	var result struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return result.Summary, nil
}
