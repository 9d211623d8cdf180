package justgo

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultAPIVersion is the JustGo API version path segment.
	DefaultAPIVersion = "v2.1"

	// DefaultTimeout is the default per-attempt HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of attempts per request.
	DefaultMaxRetries = 3

	// DefaultRateLimitDelay is the minimum spacing between request starts.
	DefaultRateLimitDelay = 100 * time.Millisecond

	// DefaultRetryBaseDelay is the base of the exponential backoff.
	DefaultRetryBaseDelay = time.Second

	// TokenExpiryBuffer is subtracted from the server's expiry so a token
	// is never served when it could expire mid-request.
	TokenExpiryBuffer = 5 * time.Minute

	// TokenCacheKey is the shared token store key.
	TokenCacheKey = "justgo_access_token"
)

// Config errors.
var (
	ErrConfigMissingBaseURL = errors.New("justgo: base URL is required")
	ErrConfigInvalidBaseURL = errors.New("justgo: base URL must be an absolute http(s) URL")
	ErrConfigInvalidTimeout = errors.New("justgo: timeout must be positive")
	ErrConfigInvalidDelay   = errors.New("justgo: delays must not be negative")
)

// Config holds the credentials and tuning for one client.
// A Client copies its Config on construction and never mutates it.
type Config struct {
	// Secret is posted to the Auth endpoint to obtain a bearer token.
	Secret string

	// BaseURL is the JustGo host, e.g. https://example.justgo.com.
	BaseURL string

	// APIVersion is inserted as /api/{version}/. Default: v2.1
	APIVersion string

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the total number of attempts per request (minimum 1).
	MaxRetries int

	// RateLimitDelay is the minimum time between the starts of two requests.
	RateLimitDelay time.Duration

	// RetryBaseDelay is the base of exponential backoff: base * 2^attempt.
	RetryBaseDelay time.Duration

	// AllowWrites enables write operations when the context carries no
	// write mode. The zero value keeps the client read-only.
	AllowWrites bool
}

// DefaultConfig returns a read-only configuration with default tuning.
// Secret and BaseURL must still be supplied.
func DefaultConfig() Config {
	return Config{
		APIVersion:     DefaultAPIVersion,
		Timeout:        DefaultTimeout,
		MaxRetries:     DefaultMaxRetries,
		RateLimitDelay: DefaultRateLimitDelay,
		RetryBaseDelay: DefaultRetryBaseDelay,
	}
}

// Validate checks the configuration. A missing secret is not a config
// error: it surfaces as an authentication error on first use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrConfigMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrConfigInvalidBaseURL
	}
	if c.Timeout <= 0 {
		return ErrConfigInvalidTimeout
	}
	if c.RateLimitDelay < 0 || c.RetryBaseDelay < 0 {
		return ErrConfigInvalidDelay
	}
	return nil
}

// withDefaults fills zero-valued tuning fields.
func (c Config) withDefaults() Config {
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryBaseDelay == 0 {
		c.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = DefaultMaxRetries
	}
	return c
}

// endpointURL builds {base_url}/api/{api_version}/{endpoint}.
func (c Config) endpointURL(endpoint string, query url.Values) string {
	u := strings.TrimRight(c.BaseURL, "/") + "/api/" + c.APIVersion + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
