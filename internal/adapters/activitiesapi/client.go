package activitiesapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"portal/internal/adapters/http/perf"
	"portal/internal/domain/activity"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Confirmation is the success payload of a mutating call.
type Confirmation struct {
	Message string `json:"message"`
}

// Client calls the external activities service.
// It performs no retries and sets no timeout of its own; the caller's context bounds each call.
type Client struct {
	base       *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCollector records every upstream call in the perf collector.
// Apply it after WithHTTPClient so the timing transport wraps the final transport.
func WithCollector(collector *perf.Collector) Option {
	return func(c *Client) {
		if collector == nil {
			return
		}
		hc := *c.httpClient
		hc.Transport = NewTimingTransport(hc.Transport, collector)
		c.httpClient = &hc
	}
}

// New creates a client for the service at baseURL (scheme + host, optional path prefix).
// PRE: baseURL is an absolute http(s) URL
// POST: Returns a ready-to-use client
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""

	c := &Client{base: u, httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured service origin.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListActivities fetches the whole activity collection, preserving the service's key order.
// PRE: none
// POST: Returns the collection exactly as served, or a *RequestError
func (c *Client) ListActivities(ctx context.Context) (activity.Collection, error) {
	const op = "list activities"
	body, err := c.do(ctx, op, http.MethodGet, "/activities", "/activities", nil)
	if err != nil {
		return activity.Collection{}, err
	}
	col, err := decodeCollection(body)
	if err != nil {
		slog.Error("activities_decode_failed", "error", err)
		return activity.Collection{}, networkError(op, err)
	}
	return col, nil
}

// Signup registers email for activityName.
// PRE: activityName and email are non-empty
// POST: Returns the service's confirmation, or a *RequestError
func (c *Client) Signup(ctx context.Context, activityName, email string) (Confirmation, error) {
	const op = "signup"
	path := "/activities/" + url.PathEscape(activityName) + "/signup"
	query := url.Values{"email": {email}}
	body, err := c.do(ctx, op, http.MethodPost, path, "/activities/{activity}/signup", query)
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{Message: decodeMessage(body)}, nil
}

// RemoveParticipant unregisters email from activityName.
// PRE: activityName and email are non-empty
// POST: Returns the service's confirmation, or a *RequestError
func (c *Client) RemoveParticipant(ctx context.Context, activityName, email string) (Confirmation, error) {
	const op = "remove participant"
	path := "/activities/" + url.PathEscape(activityName) + "/participants/" + url.PathEscape(email)
	body, err := c.do(ctx, op, http.MethodDelete, path, "/activities/{activity}/participants/{email}", nil)
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{Message: decodeMessage(body)}, nil
}

// do sends one request and returns the body of a 2xx response.
// escapedPath must already be percent-encoded; route is the unescaped template used for timing.
func (c *Client) do(ctx context.Context, op, method, escapedPath, route string, query url.Values) ([]byte, error) {
	target := c.base.String() + escapedPath
	if query != nil {
		// QueryEscape encodes spaces as '+', which the service decodes back to spaces.
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(withRoute(ctx, route), method, target, nil)
	if err != nil {
		return nil, networkError(op, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("activities_request_failed", "op", op, "error", err)
		return nil, networkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, networkError(op, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(body)
		slog.Info("activities_request_rejected", "op", op, "status", resp.StatusCode, "detail", detail)
		return nil, applicationError(op, resp.StatusCode, detail)
	}
	return body, nil
}

// IsNetworkFailure reports whether err is a NetworkFailure RequestError.
func IsNetworkFailure(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Kind == NetworkFailure
}
