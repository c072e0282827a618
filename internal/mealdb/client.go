// internal/mealdb/client.go
package mealdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "mcp-mealdb/internal/errors"
	"mcp-mealdb/internal/logging"
)

const (
	// DefaultBaseURL is TheMealDB's public v1 API root.
	DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

	// RequestTimeout bounds every upstream call, including reading the body.
	RequestTimeout = 10 * time.Second

	DefaultUserAgent = "mcp-mealdb/1.0"

	// maxBodyBytes caps how much of an upstream response is read.
	maxBodyBytes = 8 << 20

	// logBodyBytes caps how much of a rejected body is logged.
	logBodyBytes = 256
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different upstream root.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout overrides RequestTimeout for every call made by the client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client performs single GET requests against the upstream API. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a Client with the given options applied over the defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		timeout:    RequestTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the upstream root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch issues GET {baseURL}/{endpoint}?{params} and returns the parsed JSON
// object. Failures are classified as UpstreamStatus, UpstreamNetwork or
// UpstreamPayload. There are no retries.
func (c *Client) Fetch(ctx context.Context, endpoint string, params map[string]string) (*Payload, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.endpointURL(endpoint, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		observeUpstream(endpoint, outcomeNetworkError, start)
		return nil, apperrors.UpstreamNetwork(endpoint, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeUpstream(endpoint, outcomeNetworkError, start)
		logging.Debug("upstream request failed", "endpoint", endpoint, "error", err)
		return nil, apperrors.UpstreamNetwork(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		observeUpstream(endpoint, outcomeStatusError, start)
		logging.Debug("upstream returned error status", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, apperrors.UpstreamStatus(endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		observeUpstream(endpoint, outcomeNetworkError, start)
		return nil, apperrors.UpstreamNetwork(endpoint, fmt.Errorf("failed to read response body: %w", err))
	}

	payload, err := ParsePayload(endpoint, body)
	if err != nil {
		observeUpstream(endpoint, outcomePayloadError, start)
		logging.Debug("unexpected upstream payload", "endpoint", endpoint, "body", bodyPreview(body))
		return nil, err
	}

	observeUpstream(endpoint, outcomeOK, start)
	logging.Debug("upstream request completed",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)
	return payload, nil
}

func (c *Client) endpointURL(endpoint string, params map[string]string) string {
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) == 0 {
		return target
	}

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return target + "?" + q.Encode()
}

func bodyPreview(body []byte) string {
	if len(body) <= logBodyBytes {
		return string(body)
	}
	return string(body[:logBodyBytes]) + "..."
}
