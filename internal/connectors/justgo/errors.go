package justgo

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// ErrorKind classifies a JustGo failure.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindRateLimit      ErrorKind = "rate_limit"
	KindTimeout        ErrorKind = "timeout"
	KindConnection     ErrorKind = "connection"
	KindNotFound       ErrorKind = "not_found"
	KindAPI            ErrorKind = "api"
)

// Sentinels for errors.Is. Every *APIError matches ErrAPI plus the
// sentinel of its kind.
var (
	ErrAPI            = errors.New("justgo: API error")
	ErrAuthentication = errors.New("justgo: authentication failed")
	ErrRateLimited    = errors.New("justgo: rate limit exceeded")
	ErrTimeout        = errors.New("justgo: request timed out")
	ErrConnection     = errors.New("justgo: connection failed")

	// ErrNotFound is the domain sentinel so that callers in core can
	// match connector not-found errors without importing this package.
	ErrNotFound = domain.ErrNotFound
)

// APIError is the single error type returned by the JustGo client.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	// Body is the raw response body, if any.
	Body string
	// PayloadStatusCode is the statusCode reported inside a 200 body.
	PayloadStatusCode int
	// RetryAfter is the server's retry hint for rate limit errors.
	RetryAfter time.Duration
	// Err is the underlying network error, if any.
	Err error

	// tokenRejected marks a 401 from an API call, as opposed to a failed
	// Auth exchange. Only these trigger re-authentication.
	tokenRejected bool
}

func (e *APIError) Error() string {
	if e.PayloadStatusCode != 0 {
		return fmt.Sprintf("justgo: %s error (payload status %d): %s", e.Kind, e.PayloadStatusCode, e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("justgo: %s error %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("justgo: %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying network error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAPI:
		return true
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrRateLimited:
		return e.Kind == KindRateLimit
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrConnection:
		return e.Kind == KindConnection
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

func newError(kind ErrorKind, status int, message string) *APIError {
	return &APIError{Kind: kind, StatusCode: status, Message: message}
}

func authError(status int, message string) *APIError {
	return newError(KindAuthentication, status, message)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnauthorized checks if the error is an HTTP 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindAuthentication && apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

func isTokenRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.tokenRejected
}

// IsRetryable reports whether the retry loop should try again:
// rate limits, timeouts, connection failures and 5xx responses.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind {
	case KindRateLimit, KindTimeout, KindConnection:
		return true
	case KindAPI:
		return apiErr.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}
