// Package upstream is the HTTP client for the retail backend API. The
// backend is the sole authority for storage, prices, totals and stock; this
// client only moves JSON and normalises the two list shapes the backend is
// known to return.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to the retail backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// RequestOption mutates an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithIdempotencyKey attaches an idempotency key header so the backend can
// drop duplicate submissions.
func WithIdempotencyKey(key string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("X-Idempotency-Key", key)
	}
}

// listEnvelope is the paginated shape some list endpoints return. Results
// stays raw so the caller's slice type decides the element shape.
type listEnvelope struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  json.RawMessage `json:"results"`
}

// List fetches a collection endpoint into out (a pointer to a slice). The
// endpoint may answer with a bare array or a {count,next,previous,results}
// envelope; both decode transparently.
func (c *Client) List(ctx context.Context, token, path string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, token, nil, nil)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(raw, out)
	}
	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("upstream: decode list envelope: %w", err)
	}
	if envelope.Results == nil {
		return fmt.Errorf("upstream: list response has neither array nor results")
	}
	return json.Unmarshal(envelope.Results, out)
}

// Get fetches a single resource into out.
func (c *Client) Get(ctx context.Context, token, path string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, token, nil, nil)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// Post creates a resource. When out is non-nil the response body decodes
// into it.
func (c *Client) Post(ctx context.Context, token, path string, body, out any, opts ...RequestOption) error {
	raw, err := c.do(ctx, http.MethodPost, path, token, body, opts)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// Put replaces a resource.
func (c *Client) Put(ctx context.Context, token, path string, body, out any) error {
	raw, err := c.do(ctx, http.MethodPut, path, token, body, nil)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, token, nil, nil)
	return err
}

func decodeInto(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, opts []RequestOption) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("upstream: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, opt := range opts {
		opt(req)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Warn("close response body", slog.Any("error", err))
		}
	}()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream: read response: %w", err)
	}
	if res.StatusCode >= 400 {
		return nil, c.errorFromResponse(method, path, res.StatusCode, raw)
	}
	return raw, nil
}
