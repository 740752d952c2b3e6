package solanatracker

// Package solanatracker contains the client for the Solana Tracker data API
// This file is the transport layer: rate limiting, fixed-interval retry, circuit breaker
// It returns raw JSON bodies and knows nothing about the dashboard schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"uranus-analytics/internal/infra/log"
	"uranus-analytics/internal/infra/retry"

	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// BaseURL - production Solana Tracker data API
	BaseURL = "https://data.solanatracker.io"

	DefaultMaxRetries      = 3
	DefaultRetryDelay      = 2 * time.Second
	DefaultTimeout         = 30 * time.Second
	DefaultMaxResponseSize = 10 * 1024 * 1024 // 10MB
)

func GenerateRequestID() string { return log.GenerateRequestID() }

func LogRequest(requestID, method, endpoint string, fields ...zap.Field) {
	log.LogRequest(requestID, method, endpoint, fields...)
}

func LogResponse(requestID string, statusCode int, durationMs int64, fields ...zap.Field) {
	log.LogResponse(requestID, statusCode, durationMs, fields...)
}

func LogDebug(message string, fields ...zap.Field) { log.LogDebug(message, fields...) }
func LogInfo(message string, fields ...zap.Field)  { log.LogInfo(message, fields...) }
func LogWarn(message string, fields ...zap.Field)  { log.LogWarn(message, fields...) }

// Options configures a Client. Zero values fall back to the Default* constants,
// except MaxRetries and RetryDelay which are taken as given when SetRetryPolicy is true.
type Options struct {
	BaseURL         string
	APIKey          string
	MaxRetries      int
	RetryDelay      time.Duration
	SetRetryPolicy  bool
	Timeout         time.Duration
	MaxResponseSize int64
	MinInterval     time.Duration
	Limiter         *RateLimiter // shared limiter; built from MinInterval when nil
	HTTPClient      *http.Client
}

// Client talks to one Solana Tracker host. Safe for concurrent use.
type Client struct {
	baseURL         string
	apiKey          string
	maxRetries      int
	retryDelay      time.Duration
	maxResponseSize int64
	httpClient      *http.Client
	rateLimiter     *RateLimiter
	circuitBreaker  *gobreaker.CircuitBreaker
	healthBreaker   *gobreaker.CircuitBreaker // /credits only
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if !opts.SetRetryPolicy {
		opts.MaxRetries = DefaultMaxRetries
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxResponseSize <= 0 {
		opts.MaxResponseSize = DefaultMaxResponseSize
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(opts.MinInterval)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		}
	}

	return &Client{
		baseURL:         opts.BaseURL,
		apiKey:          opts.APIKey,
		maxRetries:      opts.MaxRetries,
		retryDelay:      opts.RetryDelay,
		maxResponseSize: opts.MaxResponseSize,
		httpClient:      httpClient,
		rateLimiter:     limiter,
		circuitBreaker:  newBreaker("SolanaTrackerAPI"),
		healthBreaker:   newBreaker("SolanaTrackerHealth"),
	}
}

// newBreaker trips after more than 5 consecutive upstream failures.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			LogWarn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// countsAsHealthy keeps client errors (4xx other than 429) out of the breaker's
// failure count: they describe the request, not the upstream.
func countsAsHealthy(err error) bool {
	if err == nil {
		return true
	}
	var he *retry.HTTPError
	if errors.As(err, &he) {
		return he.StatusCode >= 400 && he.StatusCode < 500 && he.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// MaxRetries is the retry budget used by the endpoint helpers.
func (c *Client) MaxRetries() int { return c.maxRetries }

// Request GETs baseURL+endpoint and returns the JSON body.
// Every attempt waits on the shared RateLimiter; a 429 sleeps the fixed retry delay and
// retries while maxRetries allows. Failures come back as *UpstreamError.
func (c *Client) Request(ctx context.Context, endpoint string, maxRetries int) ([]byte, error) {
	return c.request(ctx, c.circuitBreaker, endpoint, maxRetries)
}

func (c *Client) request(ctx context.Context, breaker *gobreaker.CircuitBreaker, endpoint string, maxRetries int) ([]byte, error) {
	requestID := GenerateRequestID()
	startTime := time.Now()

	var respBody []byte
	_, err := breaker.Execute(func() (interface{}, error) {
		return nil, retry.Do(ctx, retry.Options{MaxRetries: maxRetries, Delay: c.retryDelay}, func(attempt int) error {
			if attempt > 0 {
				LogInfo("Retrying upstream request",
					zap.String("request_id", requestID),
					zap.String("endpoint", endpoint),
					zap.Int("retries_left", maxRetries-attempt+1))
			}
			if err := c.rateLimiter.Acquire(ctx); err != nil {
				return fmt.Errorf("rate limiter wait failed: %w", err)
			}
			body, err := c.doGET(ctx, requestID, endpoint)
			if err != nil {
				return err
			}
			respBody = body
			return nil
		})
	})
	duration := time.Since(startTime).Milliseconds()

	if err != nil {
		uerr := classify(endpoint, err)
		LogWarn("Upstream request failed",
			zap.String("request_id", requestID),
			zap.String("endpoint", endpoint),
			zap.String("kind", string(uerr.Kind)),
			zap.Int64("duration_ms", duration),
			zap.Error(err))
		return nil, uerr
	}

	if !gjson.ValidBytes(respBody) {
		return nil, &UpstreamError{Kind: KindMalformedBody, Endpoint: endpoint, Err: errors.New("response body is not valid JSON")}
	}

	LogDebug("Upstream request succeeded",
		zap.String("request_id", requestID),
		zap.String("endpoint", endpoint),
		zap.Int64("duration_ms", duration))
	return respBody, nil
}

func (c *Client) doGET(ctx context.Context, requestID, endpoint string) ([]byte, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req, c.apiKey)

	LogRequest(requestID, req.Method, endpoint, zap.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		LogResponse(requestID, 0, time.Since(startTime).Milliseconds(), zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	duration := time.Since(startTime).Milliseconds()
	if err != nil {
		LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint))

	if resp.StatusCode == http.StatusTooManyRequests {
		LogWarn("Rate limit hit (429)", zap.String("request_id", requestID), zap.String("endpoint", endpoint))
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func setHeaders(req *http.Request, apiKey string) {
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func classify(endpoint string, err error) *UpstreamError {
	var he *retry.HTTPError
	switch {
	case retry.IsRateLimited(err):
		return &UpstreamError{Kind: KindRateLimitExceeded, Status: http.StatusTooManyRequests, Endpoint: endpoint, Err: err}
	case errors.As(err, &he):
		return &UpstreamError{Kind: KindHTTP, Status: he.StatusCode, Endpoint: endpoint, Err: err}
	default:
		return &UpstreamError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
	}
}
