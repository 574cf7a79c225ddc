// Package client provides the HTTP transport for the Helium ledger API with
// request pacing, retry of idempotent reads, and error classification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/helium-client/pkg/logging"
	"github.com/Sternrassler/helium-client/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public ledger API.
const DefaultBaseURL = "https://api.helium.io/v1"

// maxErrorBody bounds how much of an error response is kept in APIError.
const maxErrorBody = 512

// Client is the ledger API transport.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *ratelimit.Tracker
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root including the version segment.
	BaseURL string

	// User-Agent header (REQUIRED)
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Timeout per HTTP round trip.
	Timeout time.Duration

	// Retry applies to GET requests only.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Local pacing. RateLimit of 0 disables it.
	RateLimit int // Requests per second
	Burst     int

	// Redis shares the 429 cool-down across processes. Optional.
	Redis *redis.Client
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		UserAgent:      userAgent,
		Timeout:        30 * time.Second,
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		RateLimit:      10,
		Burst:          10,
	}
}

// Response is the API envelope. List endpoints set Cursor when more pages
// follow.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Cursor string          `json:"cursor,omitempty"`
}

// New creates a new ledger API client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.MaxRetries)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := logging.NewLogger("ledger-client")

	rateLimiter := ratelimit.NewTracker(cfg.Redis, ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit,
		Burst:             cfg.Burst,
	}, logging.NewLogger("ratelimit"))

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		rateLimiter: rateLimiter,
		config:      cfg,
		logger:      logger,
	}, nil
}

// Get fetches path with the given query. Empty query values are dropped.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	var resp *Response
	err := retryWithBackoff(ctx, c.retryConfig(), c.logger, func() error {
		var err error
		resp, err = c.do(ctx, http.MethodGet, path, query, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Post sends body as JSON. Posts are never retried.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, payload)
}

func (c *Client) retryConfig() RetryConfig {
	rc := DefaultRetryConfig()
	rc.MaxRetries = c.config.MaxRetries
	if c.config.InitialBackoff > 0 {
		rc.InitialBackoff = c.config.InitialBackoff
	}
	if c.config.MaxBackoff > 0 {
		rc.MaxBackoff = c.config.MaxBackoff
	}
	return rc
}

// do performs one HTTP round trip and decodes the envelope.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*Response, error) {
	startTime := time.Now()
	defer func() {
		ledgerRequestDuration.WithLabelValues(method).Observe(time.Since(startTime).Seconds())
	}()

	allowed, err := c.rateLimiter.ShouldAllowRequest(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Rate limit check failed")
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if !allowed {
		ledgerRequestsTotal.WithLabelValues(method, "rate_limited").Inc()
		return nil, ErrRateLimited
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get("X-Request-ID")

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Msg("Executing ledger request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := c.classifyError(nil, err)
		ledgerErrorsTotal.WithLabelValues(string(errClass)).Inc()
		ledgerRequestsTotal.WithLabelValues(method, "network_error").Inc()
		c.logger.Error().Err(err).Str("path", path).Str("request_id", requestID).Msg("HTTP request failed")
		return nil, &APIError{ErrorClass: errClass, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	ledgerRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		return nil, c.errorFromResponse(ctx, resp, path, requestID)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Bool("has_cursor", out.Cursor != "").
		Dur("duration", time.Since(startTime)).
		Msg("Ledger request complete")

	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	target := c.baseURL + path
	if encoded := encodeQuery(query); encoded != "" {
		target += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) errorFromResponse(ctx context.Context, resp *http.Response, path, requestID string) error {
	errClass := c.classifyError(resp, nil)
	ledgerErrorsTotal.WithLabelValues(string(errClass)).Inc()

	c.logger.Warn().
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("error_class", string(errClass)).
		Str("request_id", requestID).
		Msg("Ledger request error")

	if errClass == ErrorClassRateLimit {
		if err := c.rateLimiter.RecordThrottle(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to record rate limit cool-down")
		}
	}

	message := resp.Status
	if raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); len(bytes.TrimSpace(raw)) > 0 {
		message = string(bytes.TrimSpace(raw))
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		ErrorClass: errClass,
		Message:    message,
	}
	if resp.StatusCode == http.StatusNotFound {
		apiErr.Err = ErrNotFound
	}
	return apiErr
}

// classifyError categorizes an error for observability and handling.
func (c *Client) classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrorClassClient
	case resp.StatusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// encodeQuery drops keys whose values are all empty so optional parameters
// are omitted rather than sent blank.
func encodeQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	cleaned := url.Values{}
	for key, values := range query {
		for _, v := range values {
			if v != "" {
				cleaned.Add(key, v)
			}
		}
	}
	return cleaned.Encode()
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
