package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the operator JSON API of a running server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	trace      io.Writer
}

// NewClient creates a client for the server at baseURL. Requests carry
// token as a bearer credential when it is set.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Trace makes the client print each request line to w
func (c *Client) Trace(w io.Writer) {
	c.trace = w
}

// APIError is an error body returned by the server
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Health reports server status
func (c *Client) Health(ctx context.Context) (HealthResult, error) {
	var result HealthResult
	err := c.get(ctx, "/api/v1/health", nil, &result)
	return result, err
}

// Participants lists the connected participants
func (c *Client) Participants(ctx context.Context) ([]Participant, error) {
	var result []Participant
	err := c.get(ctx, "/api/v1/participants", nil, &result)
	return result, err
}

// Profile fetches the stored profile with the given login name
func (c *Client) Profile(ctx context.Context, login string) (Profile, error) {
	var result Profile
	err := c.get(ctx, "/api/v1/profiles/"+url.PathEscape(login), nil, &result)
	return result, err
}

// SearchCrews finds crews whose name contains keyword
func (c *Client) SearchCrews(ctx context.Context, keyword string) ([]Crew, error) {
	var result []Crew
	err := c.get(ctx, "/api/v1/crews", url.Values{"name": {keyword}}, &result)
	return result, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.trace != nil {
		_, _ = fmt.Fprintf(c.trace, "> GET %s\n", target)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if c.trace != nil {
		_, _ = fmt.Fprintf(c.trace, "< %s (%d bytes)\n", resp.Status, len(body))
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, body)
	}
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var envelope struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		envelope.Error.Status = status
		return &envelope.Error
	}
	return &APIError{
		Status:  status,
		Code:    http.StatusText(status),
		Message: strings.TrimSpace(string(body)),
	}
}
