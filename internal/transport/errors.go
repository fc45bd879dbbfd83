package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")
	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited by upstream")
	// ErrUpstreamDown is returned for 5xx responses and open circuit breakers.
	ErrUpstreamDown = errors.New("upstream unavailable")

	// errNoAddress is returned when a host resolves to no dialable address.
	errNoAddress = errors.New("failed to dial any resolved address")
	// errEmptyURL is returned when a request is attempted without a URL.
	errEmptyURL = errors.New("url must be provided")
	// errInvalidRequest is returned when a request cannot be built, e.g. a malformed URL.
	errInvalidRequest = errors.New("creating request")
)

// StatusError describes a non-2xx response.
type StatusError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Header holds the response headers, used to detect rate limits.
	Header http.Header
	// Body is a short prefix of the response body.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps well-known status codes to the package sentinels.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrUpstreamDown
	default:
		return nil
	}
}

// retryable reports whether the request may succeed when sent again.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUpstreamDown)
	}

	if errors.Is(err, errEmptyURL) || errors.Is(err, errInvalidRequest) || errors.Is(err, ErrUpstreamDown) {
		return false
	}

	// Transport level failures (reset connections, DNS hiccups) are retried.
	return true
}
