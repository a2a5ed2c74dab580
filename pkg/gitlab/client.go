package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL    = "https://gitlab.com"
	DefaultTimeout    = 30 * time.Second
	DefaultAttempts   = 3
	DefaultRetryDelay = 2 * time.Second
)

// Client is the source-control REST API client.
type Client struct {
	baseURL    string
	token      string
	attempts   int
	retryDelay time.Duration
	httpClient *http.Client
}

// New creates a Client for the API at baseURL authenticated with token.
func New(baseURL, token string) (*Client, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		attempts:   DefaultAttempts,
		retryDelay: DefaultRetryDelay,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// WithRetry overrides the attempt count and the fixed delay between attempts.
func (c *Client) WithRetry(attempts int, delay time.Duration) *Client {
	if attempts < 1 {
		attempts = 1
	}
	c.attempts = attempts
	c.retryDelay = delay
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string { return c.baseURL }

// GetMergeRequest fetches one merge request.
func (c *Client) GetMergeRequest(ctx context.Context, projectID, iid int64) (MergeRequest, error) {
	var mr MergeRequest
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/merge_requests/%d", projectID, iid), nil, &mr)
	return mr, err
}

// GetMergeRequestChanges fetches a merge request with its file diffs.
func (c *Client) GetMergeRequestChanges(ctx context.Context, projectID, iid int64) (MergeRequestChanges, error) {
	var changes MergeRequestChanges
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/merge_requests/%d/changes", projectID, iid), nil, &changes)
	return changes, err
}

// CreateMergeRequestNote posts a comment on a merge request.
func (c *Client) CreateMergeRequestNote(ctx context.Context, projectID, iid int64, body string) (Note, error) {
	var note Note
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/merge_requests/%d/notes", projectID, iid), noteRequest{Body: body}, &note)
	return note, err
}

// GetProject fetches a project by numeric id.
func (c *Client) GetProject(ctx context.Context, projectID int64) (Project, error) {
	var p Project
	err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(fmt.Sprint(projectID)), nil, &p)
	return p, err
}

// do runs one API call with a fixed delay between attempts.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.once(ctx, method, path, in, out)
		if lastErr == nil || !retryable(lastErr) || ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v4"+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gitlab API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gitlab response: %w", err)
	}
	return nil
}
