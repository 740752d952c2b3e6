package retry

// Fixed-interval retry loop for rate-limited upstreams
// Retries HTTP 429 responses and transport errors that report a rate limit
// A 429 always sleeps Delay, even when no attempts remain, so callers never hammer the host
// No exponential growth and no jitter: the policy is a visible (MaxRetries, Delay) pair

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Options struct {
	MaxRetries int           // attempts allowed after the first one
	Delay      time.Duration // fixed sleep between attempts
}

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error: <nil>"
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("http error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("http error (%d): %s", e.StatusCode, string(e.Body))
}

// IsRateLimited reports whether err is an HTTP 429 response.
func IsRateLimited(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusTooManyRequests
}

// IsRetryable reports whether another attempt may succeed: a 429 response, or any
// other non-HTTP error whose message mentions a rate limit.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsRateLimited(err) {
		return true
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

// Do calls fn until it succeeds, fails with a non-retryable error, or opts.MaxRetries
// extra attempts are spent. fn receives the zero-based attempt number.
func Do(ctx context.Context, opts Options, fn func(attempt int) error) error {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}

		exhausted := attempt >= opts.MaxRetries
		if exhausted && !IsRateLimited(err) {
			return err
		}
		if serr := sleep(ctx, opts.Delay); serr != nil {
			return serr
		}
		if exhausted {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
