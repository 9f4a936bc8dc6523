// Package httputil provides HTTP utilities for the registry and GitHub clients.
//
// # Retry
//
// [Retry] wraps a request with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped with [RetryableError] (or [Retryable]) are retried;
// everything else, including 404s and exhausted rate limits, returns
// immediately so that a metric can default without waiting:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch(ctx)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Max attempts: 3
//   - Base backoff: 1 second (doubling each retry)
//
// A cancelled context aborts the backoff wait and returns ctx.Err(), which
// keeps per-metric timeouts effective while a retry is pending.
package httputil
