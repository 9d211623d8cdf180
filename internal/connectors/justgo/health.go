package justgo

import (
	"context"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// HealthCheck makes sure the client can authenticate and reports its
// request statistics. An authentication failure is returned alongside
// the partial report.
func (c *Client) HealthCheck(ctx context.Context) (*domain.HealthReport, error) {
	err := c.EnsureAuthenticated(ctx)

	report := &domain.HealthReport{
		Authenticated:   c.IsAuthenticated(),
		RequestCount:    c.RequestCount(),
		LastRequestTime: c.LastRequestTime(),
		ReadOnly:        !c.WritesAllowed(ctx),
		BaseURL:         c.cfg.BaseURL,
		APIVersion:      c.cfg.APIVersion,
	}
	if token, ok := c.Token(); ok {
		report.TokenExpiresAt = token.ExpiresAt
	}
	return report, err
}
