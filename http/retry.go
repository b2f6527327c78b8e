package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultRetryDelays returns the backoff delays for request retries: 250ms, 1s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{250 * time.Millisecond, 1 * time.Second}
}

// statusError reports a non-200 response.
type statusError struct {
	code     int
	endpoint string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.endpoint)
}

// retryable reports whether a failed request may succeed when repeated.
// Server errors, throttling and network failures are retried; other
// status codes are not.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled)
}

// withRetry calls fn until it succeeds, fails permanently, or every delay
// has been used. It makes len(delays)+1 attempts at most.
func withRetry(ctx context.Context, delays []time.Duration, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := fn(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !retryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
