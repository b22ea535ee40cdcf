// Package client is the Go SDK for the HackNebula HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const sdkVersion = "0.1.0"

// Identity is the caller forwarded to the API through the proxy headers.
type Identity struct {
	UserID string
	Name   string
	Roles  []string
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hacknebula: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *APIError) IsNotFound() bool     { return e.StatusCode == http.StatusNotFound }
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }
func (e *APIError) IsRateLimited() bool  { return e.StatusCode == http.StatusTooManyRequests }
func (e *APIError) IsServerError() bool  { return e.StatusCode >= 500 && e.StatusCode < 600 }

// ListMeta is the pagination block attached to list responses.
type ListMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// Client talks to a HackNebula API server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	identity     Identity
	userAgent    string
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	teams        *TeamsClient
	teamsOnce    sync.Once
	planets      *PlanetsClient
	planetsOnce  sync.Once
	schedule     *ScheduleClient
	scheduleOnce sync.Once
	feed         *FeedClient
	feedOnce     sync.Once
}

// NewClient builds a client for the given server.  The identity must carry a
// user ID; roles default to participant on the server side.
func NewClient(baseURL string, id Identity, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("hacknebula: baseURL is required")
	}
	if id.UserID == "" {
		return nil, fmt.Errorf("hacknebula: identity user ID is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("hacknebula: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("hacknebula: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		identity:     id,
		userAgent:    "hacknebula-go-sdk/" + sdkVersion,
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Teams returns the teams sub-client.
func (c *Client) Teams() *TeamsClient {
	c.teamsOnce.Do(func() { c.teams = &TeamsClient{client: c} })
	return c.teams
}

// Planets returns the planets sub-client.
func (c *Client) Planets() *PlanetsClient {
	c.planetsOnce.Do(func() { c.planets = &PlanetsClient{client: c} })
	return c.planets
}

// Schedule returns the schedule sub-client.
func (c *Client) Schedule() *ScheduleClient {
	c.scheduleOnce.Do(func() { c.schedule = &ScheduleClient{client: c} })
	return c.schedule
}

// Feed returns the feed sub-client.
func (c *Client) Feed() *FeedClient {
	c.feedOnce.Do(func() { c.feed = &FeedClient{client: c} })
	return c.feed
}

// do performs an HTTP request with retry on network and 5xx failures.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("hacknebula: marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return fmt.Errorf("hacknebula: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-User-ID", c.identity.UserID)
		if c.identity.Name != "" {
			req.Header.Set("X-User-Name", c.identity.Name)
		}
		if len(c.identity.Roles) > 0 {
			req.Header.Set("X-User-Roles", strings.Join(c.identity.Roles, ","))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("hacknebula: read response body: %w", err)
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			if len(respBody) > 0 {
				if err := json.Unmarshal(respBody, apiErr); err != nil {
					apiErr.Message = string(respBody)
				}
			}
			lastErr = apiErr
			if apiErr.IsServerError() && attempt < c.retryMax {
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("hacknebula: unmarshal response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if d > c.retryWaitMax {
		d = c.retryWaitMax
	}
	return d + time.Duration(rand.Int63n(int64(d/4)+1))
}
