package http

import (
	"context"
	"errors"
	"time"
)

var (
	errServerStatus = errors.New("server error")
	errTransport    = errors.New("transport error")
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for request retries:
// 500ms, 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second}
}

// retryable reports whether a failed request may succeed when repeated.
// Server errors and transport failures are retried; client errors are not.
func retryable(err error) bool {
	return errors.Is(err, errServerStatus) || errors.Is(err, errTransport)
}

// withRetry calls fn until it succeeds, fails with a non-retryable error or
// len(delays)+1 attempts were made. The logger, if provided, is called for
// each retry attempt.
func withRetry[T any](ctx context.Context, delays []time.Duration, logger LogFunc, url string, fn func(context.Context) (T, error)) (T, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var zero T
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
