// Package justgo is a client for the JustGo membership API.
//
// The client authenticates with a shared secret, spaces requests with a
// rate limiter and retries transient failures with exponential backoff.
// Write operations are refused unless the context or the configuration
// allows them; see domain.WithWriteMode.
package justgo
