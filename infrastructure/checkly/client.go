// Package checkly is the HTTP client for the Checkly public API.
//
// Every request carries the bearer API key and the account header. Requests
// are rate limited and bounded in concurrency but never retried.
package checkly

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mayankeq/checkly-mcp/infrastructure/logging"
	"github.com/mayankeq/checkly-mcp/infrastructure/resilience"
	"github.com/mayankeq/checkly-mcp/infrastructure/telemetry"
)

// DefaultBaseURL is the Checkly public API origin.
const DefaultBaseURL = "https://api.checklyhq.com"

// AccountHeader carries the account id on every request.
const AccountHeader = "X-Checkly-Account"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 16 << 20

// Config configures the client.
type Config struct {
	// BaseURL is the API origin. Defaults to DefaultBaseURL.
	BaseURL string
	// APIKey is sent as a bearer token.
	APIKey string
	// AccountID is sent in the X-Checkly-Account header.
	AccountID string
	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration
}

// Client talks to the Checkly API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	accountID string
	userAgent string

	http    *http.Client
	guard   *resilience.Guard
	tracer  trace.Tracer
	metrics telemetry.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithGuard replaces the rate limit and concurrency guard.
func WithGuard(g *resilience.Guard) Option {
	return func(c *Client) {
		c.guard = g
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" || cfg.AccountID == "" {
		return nil, ErrMissingAuth
	}

	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:   base,
		apiKey:    cfg.APIKey,
		accountID: cfg.AccountID,
		userAgent: "checkly-mcp",
		http:      &http.Client{Timeout: timeout},
		tracer:    otel.Tracer("github.com/mayankeq/checkly-mcp/infrastructure/checkly"),
		metrics:   telemetry.NoopMetricsProvider{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.guard == nil {
		c.guard = resilience.NewGuard(resilience.DefaultGuardConfig())
	}
	return c, nil
}

// Get issues a GET request and returns the JSON response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT request with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// do performs one request. An empty or 204 response yields "{}".
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "checkly "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	status := 0
	defer func() {
		c.metrics.RecordAPIRequest(ctx, method, status, time.Since(start))
	}()

	out, status, err := c.roundTrip(ctx, method, path, query, body)

	span.SetAttributes(attribute.Int("http.response.status_code", status))
	logEvent := logging.Debug()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logEvent = logging.Warn().Add(logging.ErrorField(err))
	}
	logEvent.
		Add(logging.Component("checkly")).
		Add(logging.HTTPRequest(method, path)).
		Add(logging.StatusCode(status)).
		Add(logging.Duration(time.Since(start))).
		Msg("checkly api request")

	return out, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, int, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := encodeBody(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set(AccountHeader, c.accountID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.guard.Do(ctx, func(context.Context) (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage(`{}`), resp.StatusCode, nil
	}
	return json.RawMessage(data), resp.StatusCode, nil
}

// encodeBody marshals v without escaping HTML in check scripts.
func encodeBody(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
