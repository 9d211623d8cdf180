package justgo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driving"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// maxErrorBody caps the response body kept on an APIError.
const maxErrorBody = 4096

var (
	_ driven.MemberAPI      = (*Client)(nil)
	_ driving.HealthChecker = (*Client)(nil)
)

// Client is a JustGo API client.
//
// A Client is intended for sequential use by one caller. Requests block the
// calling goroutine, including while waiting on the rate limiter or backoff.
type Client struct {
	cfg     Config
	store   driven.TokenStore
	limiter *RateLimiter

	base http.RoundTripper
	api  *http.Client // bearer auth via oauth2.Transport
	auth *http.Client // bare, for the Auth endpoint only

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	mu           sync.Mutex
	token        *domain.AccessToken
	requestCount int64
	lastRequest  time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTokenStore shares tokens with other clients through store.
func WithTokenStore(store driven.TokenStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithHTTPTransport sets the round tripper used for all requests.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.base = rt
		}
	}
}

// WithSleep replaces the function used to wait between retries.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithClock replaces the clock used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a JustGo client. The configuration is copied.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:   cfg,
		base:  http.DefaultTransport,
		sleep: sleepContext,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.limiter = NewRateLimiter(cfg.RateLimitDelay)
	c.auth = &http.Client{Timeout: cfg.Timeout, Transport: c.base}
	c.api = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &oauth2.Transport{
			Source: &tokenSource{client: c},
			Base:   c.base,
		},
	}

	return c, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// RequestCount returns the number of HTTP attempts made through the
// transport. Authentication calls are not counted.
func (c *Client) RequestCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestCount
}

// LastRequestTime returns when the most recent attempt started.
func (c *Client) LastRequestTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRequest
}

// request executes one logical API call and decodes nothing: it returns
// the raw JSON body of the first successful attempt.
//
// A 401 clears the token, re-authenticates once and repeats the same
// attempt without consuming a retry. Retryable failures back off
// exponentially, or by the server's hint on 429. Once attempts are
// exhausted the last error is returned as is.
func (c *Client) request(
	ctx context.Context, method, endpoint string, query url.Values, body any,
) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		data, err := c.do(ctx, method, endpoint, query, payload)
		if isTokenRejected(err) {
			logger.Warn("justgo: %s %s returned 401, re-authenticating", method, endpoint)
			c.invalidateToken()
			if _, authErr := c.Authenticate(ctx); authErr != nil {
				return nil, authErr
			}
			data, err = c.do(ctx, method, endpoint, query, payload)
		}
		if err == nil {
			return data, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
		if attempt == c.cfg.MaxRetries-1 {
			break
		}

		wait := c.retryDelay(err, attempt)
		logger.Warn("justgo: %s %s failed (attempt %d/%d): %v; retrying in %s",
			method, endpoint, attempt+1, c.cfg.MaxRetries, err, wait)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	logger.Warn("justgo: %s %s failed after %d attempts", method, endpoint, c.cfg.MaxRetries)
	return nil, lastErr
}

// do performs a single HTTP attempt.
func (c *Client) do(
	ctx context.Context, method, endpoint string, query url.Values, payload []byte,
) (json.RawMessage, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	c.recordRequest()

	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.endpointURL(endpoint, query), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("justgo: %s %s", method, endpoint)

	resp, err := c.api.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindConnection, StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}

	return c.interpret(resp, body)
}

// interpret maps an HTTP response to data or a typed error.
func (c *Client) interpret(resp *http.Response, body []byte) (json.RawMessage, error) {
	status := resp.StatusCode
	switch {
	case status == http.StatusUnauthorized:
		err := authError(status, "access token rejected")
		err.Body = truncate(body)
		err.tokenRejected = true
		return nil, err
	case status == http.StatusNotFound:
		err := newError(KindNotFound, status, "resource not found")
		err.Body = truncate(body)
		return nil, err
	case status == http.StatusTooManyRequests:
		return nil, &APIError{
			Kind:       KindRateLimit,
			StatusCode: status,
			Message:    "rate limit exceeded",
			Body:       truncate(body),
			RetryAfter: retryAfterFromResponse(resp, c.now()),
		}
	case status >= http.StatusBadRequest:
		err := newError(KindAPI, status, errorMessage(body, status))
		err.Body = truncate(body)
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(trimmed) {
		err := newError(KindAPI, status, "invalid JSON response")
		err.Body = truncate(body)
		return nil, err
	}

	// Some endpoints report failure inside a 200 body.
	if trimmed[0] == '{' {
		var envelope struct {
			StatusCode *int   `json:"statusCode"`
			Message    string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil &&
			envelope.StatusCode != nil && *envelope.StatusCode != http.StatusOK {
			msg := envelope.Message
			if msg == "" {
				msg = "request failed"
			}
			return nil, &APIError{
				Kind:              KindAPI,
				StatusCode:        status,
				PayloadStatusCode: *envelope.StatusCode,
				Message:           msg,
				Body:              truncate(body),
			}
		}
	}

	return json.RawMessage(trimmed), nil
}

// classifyTransportError maps a failed round trip to a typed error.
// Caller cancellation is returned unchanged and never retried.
func (c *Client) classifyTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, errNoToken) {
		return &APIError{Kind: KindAuthentication, Message: "no access token available", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("request timed out after %s", c.cfg.Timeout),
			Err:     err,
		}
	}
	return &APIError{Kind: KindConnection, Message: err.Error(), Err: err}
}

// retryDelay honours the server's hint on 429, else backs off exponentially.
func (c *Client) retryDelay(err error, attempt int) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind == KindRateLimit && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}
	return backoffDelay(c.cfg.RetryBaseDelay, attempt)
}

func (c *Client) recordRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestCount++
	c.lastRequest = c.now()
}

// errorMessage pulls a message out of an error body, falling back to the
// status text.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Stats is a snapshot of the client's request counters.
type Stats struct {
	RequestCount    int64     `json:"request_count"`
	LastRequestTime time.Time `json:"last_request_time"`
	Authenticated   bool      `json:"authenticated"`
}

// Stats returns the current request counters.
func (c *Client) Stats() Stats {
	return Stats{
		RequestCount:    c.RequestCount(),
		LastRequestTime: c.LastRequestTime(),
		Authenticated:   c.IsAuthenticated(),
	}
}
