// Package client wraps the report generation HTTP API. It performs no retries
// of its own: transport failures surface as typed errors and retry policy
// stays with the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"account-research-report/internal/models"
)

// DefaultTimeout bounds every HTTP call made by the client
const DefaultTimeout = 30 * time.Second

// Client is a thin client for the report generation API
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthToken sends the given bearer token on every request
func WithAuthToken(token string) Option {
	return func(c *Client) { c.authToken = token }
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTask submits a generation request and returns the new task ID.
// A 4xx response on this path means the request itself was rejected and is
// surfaced as a ValidationError.
func (c *Client) CreateTask(ctx context.Context, req models.GenerateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusOK:
		var tr models.TaskResponse
		if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
			return "", &ServerError{StatusCode: resp.StatusCode, Message: "malformed task response"}
		}
		return tr.TaskID, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", &ValidationError{Message: readErrorMessage(resp.Body)}
	default:
		return "", &ServerError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
}

// GetTaskStatus fetches the latest snapshot of a task. Safe to call
// repeatedly and concurrently.
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*models.Task, error) {
	resp, err := c.do(ctx, http.MethodGet, "/status/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var task models.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: "malformed task snapshot"}
	}
	return &task, nil
}

// ListTasks returns all tasks visible to the caller. Ordering is stable for
// display but not contractual.
func (c *Client) ListTasks(ctx context.Context) ([]*models.Task, error) {
	resp, err := c.do(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var tasks []*models.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: "malformed task list"}
	}
	return tasks, nil
}

// DownloadArtifact fetches the rendered PDF for a completed task. Requesting
// it before the task completes returns ErrNotReady.
func (c *Client) DownloadArtifact(ctx context.Context, taskID string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/result/"+taskID+"/pdf", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		return data, nil
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("task %s: %w", taskID, ErrNotReady)
	default:
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
}

// do issues one bounded HTTP request. Network failures and timeouts come back
// as TransportError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// readErrorMessage extracts the "error" field of an API error body, falling
// back to the raw text
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no error detail"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
