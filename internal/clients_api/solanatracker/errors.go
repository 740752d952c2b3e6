package solanatracker

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an upstream failure.
type ErrorKind string

const (
	KindRateLimitExceeded ErrorKind = "rate_limit_exceeded" // 429 on every attempt
	KindHTTP              ErrorKind = "http_error"          // any other non-2xx
	KindNetwork           ErrorKind = "network_error"       // transport failure, breaker open, cancelled
	KindMalformedBody     ErrorKind = "malformed_body"      // 2xx whose body is not JSON
)

// UpstreamError is returned by every Client call that does not produce a JSON body.
type UpstreamError struct {
	Kind     ErrorKind
	Status   int
	Endpoint string
	Err      error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindRateLimitExceeded:
		return fmt.Sprintf("%s: rate limit exceeded after all retries", e.Endpoint)
	case KindHTTP:
		return fmt.Sprintf("%s: HTTP error! status: %d", e.Endpoint, e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Endpoint, e.Kind)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// KindOf returns the kind of an *UpstreamError in err's chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ""
}
