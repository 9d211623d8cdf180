package justgo

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"

	// HeaderRateReset is the reset header (Unix seconds or seconds to wait).
	HeaderRateReset = "X-RateLimit-Reset"

	// MaxRetryAfter caps any wait taken from a server hint.
	MaxRetryAfter = 5 * time.Minute

	// resetEpochThreshold separates absolute reset times from relative
	// ones: a reset value at or above it is Unix seconds (September 2001).
	resetEpochThreshold = 1_000_000_000
)

// RateLimiter enforces a minimum delay between the starts of two requests.
// A token bucket with one token refilled every delay gives exactly that:
// the first request goes straight through and each later one waits for
// whatever remains of the delay since the previous start.
type RateLimiter struct {
	bucket *rate.Limiter
	delay  time.Duration
}

// NewRateLimiter creates a limiter spacing requests by delay.
// A non-positive delay disables limiting.
func NewRateLimiter(delay time.Duration) *RateLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, 1),
		delay:  delay,
	}
}

// Wait blocks until a request may start.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// Delay returns the configured minimum spacing.
func (r *RateLimiter) Delay() time.Duration {
	return r.delay
}

// retryAfterFromResponse reads the server's wait hint from a 429 response:
// Retry-After first, then X-RateLimit-Reset. Zero means no usable hint,
// including reset times already past. Hints are capped at MaxRetryAfter.
func retryAfterFromResponse(resp *http.Response, now time.Time) time.Duration {
	if resp == nil {
		return 0
	}

	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			return capRetryAfter(time.Duration(seconds) * time.Second)
		}
		if at, err := http.ParseTime(v); err == nil {
			return capRetryAfter(at.Sub(now))
		}
	}

	if v := resp.Header.Get(HeaderRateReset); v != "" {
		if val, err := strconv.ParseInt(v, 10, 64); err == nil && val > 0 {
			if val >= resetEpochThreshold {
				return capRetryAfter(time.Unix(val, 0).Sub(now))
			}
			return capRetryAfter(time.Duration(val) * time.Second)
		}
	}

	return 0
}

// capRetryAfter clamps a hinted wait into [0, MaxRetryAfter].
func capRetryAfter(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return 0
	case d > MaxRetryAfter:
		return MaxRetryAfter
	}
	return d
}

// backoffDelay is base * 2^attempt for a zero-based attempt.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<uint(attempt))
}
