// Package leadapi is the HTTP client for the external lead capture API:
// GET /leads lists captured leads and POST /lead creates one.
package leadapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadcap/internal/lead"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// ErrMalformedResponse is wrapped when a 2xx body is not valid JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// Config configures a Client.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration // per request; 0 = no client-side limit
	RateLimit float64       // requests per second; 0 = unlimited
	Burst     int
	UserAgent string
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	log       *zap.Logger
	metrics   *Metrics
	transport http.RoundTripper
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTransport replaces the underlying RoundTripper (default http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// Client talks to the lead capture API.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *Metrics
	log     *zap.Logger
}

// New creates a Client. The API key is sent on every request.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("lead api base URL is required")
	}

	o := options{log: zap.NewNop(), transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	t := &transport{
		base:      o.transport,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		log:       o.log,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: t,
			Timeout:   cfg.Timeout,
		},
		metrics: o.metrics,
		log:     o.log,
	}, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListLeads fetches every lead. A 2xx body that is valid JSON but not an array
// yields no leads and no error.
func (c *Client) ListLeads(ctx context.Context) ([]lead.Lead, error) {
	const op = "list"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/leads", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &HTTPError{Op: op, StatusCode: status, Detail: parseDetail(body)}
	}

	leads, isArray, err := decodeLeads(body)
	if err != nil {
		return nil, err
	}
	if !isArray {
		c.log.Warn("leads response is not an array", zap.Int("bytes", len(body)))
	}
	return leads, nil
}

// CreateLead posts a new lead.
func (c *Client) CreateLead(ctx context.Context, form lead.Form) error {
	const op = "create"

	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/lead", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(op, req)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return &HTTPError{Op: op, StatusCode: status, Detail: parseDetail(body)}
	}
	return nil
}

// do executes req and reads the body, classifying transport failures.
func (c *Client) do(op string, req *http.Request) ([]byte, int, error) {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(op, OutcomeNetworkError, time.Since(start))
		c.log.Warn("request failed", zap.String("op", op), zap.Error(err))
		return nil, 0, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.observe(op, OutcomeNetworkError, time.Since(start))
		c.log.Warn("failed to read response", zap.String("op", op), zap.Error(err))
		return nil, 0, &NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	outcome := OutcomeOK
	if !isSuccess(resp.StatusCode) {
		outcome = OutcomeHTTPError
	}
	c.metrics.observe(op, outcome, time.Since(start))
	c.log.Debug("response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return body, resp.StatusCode, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// decodeLeads decodes a GET /leads body. isArray is false for valid JSON of
// any other shape, which the page renders as an empty table.
func decodeLeads(body []byte) (leads []lead.Lead, isArray bool, err error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, false, fmt.Errorf("decode leads: %w", ErrMalformedResponse)
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false, nil
	}
	if err := json.Unmarshal(trimmed, &leads); err != nil {
		return nil, true, fmt.Errorf("decode leads: %w: %v", ErrMalformedResponse, err)
	}
	return leads, true, nil
}
