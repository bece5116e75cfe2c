// Package graphql is a minimal GraphQL-over-HTTP client for the data hub API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyExcerpt bounds how much of an error response body is kept.
const maxBodyExcerpt = 512

// Client executes GraphQL documents against a single endpoint.
type Client struct {
	endpoint   string
	headers    http.Header
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// NewClient creates a Client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		headers:    make(http.Header),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Location points into the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is one entry of a GraphQL errors array.
type Error struct {
	Message   string     `json:"message"`
	Path      []any      `json:"path,omitempty"`
	Locations []Location `json:"locations,omitempty"`
}

// Execute posts query with vars and decodes the data member into out.
// Any non-2xx status, transport failure or non-empty errors array is returned
// as a *TransportError.
func (c *Client) Execute(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{
			StatusCode: resp.StatusCode,
			Body:       excerpt(payload),
			Err:        fmt.Errorf("%s", http.StatusText(resp.StatusCode)),
		}
	}

	var decoded response
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Body: excerpt(payload), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(decoded.Errors) > 0 {
		return &TransportError{StatusCode: resp.StatusCode, GraphQLErrors: decoded.Errors}
	}
	if out == nil {
		return nil
	}
	if len(decoded.Data) == 0 || string(decoded.Data) == "null" {
		return &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("response has no data")}
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func excerpt(b []byte) string {
	if len(b) > maxBodyExcerpt {
		return string(b[:maxBodyExcerpt]) + "..."
	}
	return string(b)
}
