package hubsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the campaign hub HTTP API. A zero AccessToken makes
// anonymous calls; use WithToken for authenticated ones.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	AccessToken string
}

// NewClient creates a client for baseURL with a 10 second timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of c that sends token as its bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.AccessToken = token
	return &cp
}

// do sends in as JSON (when non-nil), expects status and decodes the
// response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any, status int) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != status {
		return parseErrorResponse(resp, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// data is do for enveloped responses.
func data[T any](ctx context.Context, c *Client, method, path string, in any, status int) (T, error) {
	var env Response[T]
	if err := c.do(ctx, method, path, in, &env, status); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}
